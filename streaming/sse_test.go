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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehttp/lattice/dispatch"
)

func TestSSESession_WritesHeadersOnConstruction(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSESession(rec, "sse-1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store, no-cache", rec.Header().Get("Cache-Control"))
	assert.True(t, s.Active())
}

func TestSSESession_SendFramesExactly(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSESession(rec, "sse-1", nil, nil)
	require.NoError(t, err)

	assert.True(t, s.Send("a"))
	assert.True(t, s.Send("b"))
	assert.True(t, s.Send("c"))

	assert.Equal(t, "data: a\n\ndata: b\n\ndata: c\n\n", rec.Body.String())
	assert.Equal(t, int64(len("data: a\n\ndata: b\n\ndata: c\n\n")), s.BytesSent())
}

func TestSSESession_SendFailsWhenNotOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSESession(rec, "sse-1", nil, nil)
	require.NoError(t, err)

	resp := s.Close()
	assert.False(t, s.Send("late"))
	assert.Equal(t, dispatch.KindStreamClose, resp.Kind)
}

func TestSSESession_AppendHeaderOnlyBeforeFirstSend(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSESession(rec, "sse-1", nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.AppendHeader("X-Custom", "v1"))
	s.Send("first")
	assert.Error(t, s.AppendHeader("X-Custom", "v2"))
}

func TestSSESession_CloseIsIdempotent(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSESession(rec, "sse-1", nil, nil)
	require.NoError(t, err)

	first := s.Close()
	second := s.Close()

	assert.Equal(t, first.BytesSent, second.BytesSent)
	assert.False(t, s.Active())
}

func TestSSESession_RegistersAndUnregisters(t *testing.T) {
	registry := NewRegistry()
	rec := httptest.NewRecorder()
	s, err := NewSSESession(rec, "sse-1", nil, registry)
	require.NoError(t, err)

	assert.Same(t, Session(s), registry.ByIdentifier("sse-1"))
	s.Close()
	assert.Nil(t, registry.ByIdentifier("sse-1"))
}

func TestSSESession_CancelClearsQueueWithoutClosing(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSESession(rec, "sse-1", nil, nil)
	require.NoError(t, err)

	s.mu.Lock()
	s.queue = append(s.queue, "pending")
	s.mu.Unlock()

	s.Cancel()

	s.mu.Lock()
	pending := len(s.queue)
	s.mu.Unlock()

	assert.Zero(t, pending)
	assert.True(t, s.Active())
}

func TestSSESession_KeepAliveUnblocksOnClose(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSESession(rec, "sse-1", nil, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.KeepAlive()
		close(done)
	}()

	s.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("KeepAlive did not unblock after Close")
	}
}
