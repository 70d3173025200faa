// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package streaming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	id         string
	active     bool
	terminated int
}

func (f *fakeSession) Identifier() string { return f.id }
func (f *fakeSession) Active() bool       { return f.active }
func (f *fakeSession) Terminate() error {
	f.terminated++
	f.active = false
	return nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	s := &fakeSession{id: "conn-1", active: true}
	r.Register(s)

	got := r.ByIdentifier("conn-1")
	require.NotNil(t, got)
	assert.Same(t, s, got)
	assert.Len(t, r.All(), 1)
}

func TestRegistry_DuplicateIdentifierClosesIncumbent(t *testing.T) {
	r := NewRegistry()
	first := &fakeSession{id: "conn-1", active: true}
	second := &fakeSession{id: "conn-1", active: true}

	r.Register(first)
	r.Register(second)

	assert.Equal(t, 1, first.terminated)
	assert.Same(t, second, r.ByIdentifier("conn-1"))
	assert.Len(t, r.All(), 1)
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	s := &fakeSession{id: "conn-1", active: true}
	r.Register(s)
	r.Unregister(s)

	assert.Nil(t, r.ByIdentifier("conn-1"))
	assert.Empty(t, r.All())
}

func TestRegistry_ByIdentifierHidesInactive(t *testing.T) {
	r := NewRegistry()
	s := &fakeSession{id: "conn-1", active: true}
	r.Register(s)
	s.active = false

	assert.Nil(t, r.ByIdentifier("conn-1"))
}

func TestRegistry_Find(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSession{id: "a", active: true})
	r.Register(&fakeSession{id: "b", active: true})

	found := r.Find(func(id string, s Session) bool { return id == "b" })
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].Identifier())
}

func TestRegistry_DropAllClosesEverySession(t *testing.T) {
	r := NewRegistry()
	a := &fakeSession{id: "a", active: true}
	b := &fakeSession{id: "b", active: true}
	r.Register(a)
	r.Register(b)

	r.DropAll()

	assert.Equal(t, 1, a.terminated)
	assert.Equal(t, 1, b.terminated)
}

func TestRegistry_AnonymousSessionsNotIndexed(t *testing.T) {
	r := NewRegistry()
	s := &fakeSession{id: "", active: true}
	r.Register(s)

	assert.Nil(t, r.ByIdentifier(""))
	assert.Len(t, r.All(), 1)
}

func TestRegistry_Callbacks(t *testing.T) {
	r := NewRegistry()
	var registered, unregistered Session
	r.OnRegister = func(s Session) { registered = s }
	r.OnUnregister = func(s Session) { unregistered = s }

	s := &fakeSession{id: "conn-1", active: true}
	r.Register(s)
	assert.Same(t, s, registered)

	r.Unregister(s)
	assert.Same(t, s, unregistered)
}
