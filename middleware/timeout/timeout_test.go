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

package timeout

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/latticehttp/lattice/dispatch"
)

func TestNew_AttachesAndClearsDeadline(t *testing.T) {
	before, after := New(WithDuration(time.Minute))
	raw := httptest.NewRequest(http.MethodGet, "http://example.com/slow", nil)
	req := &dispatch.Request{Raw: raw, Path: "/slow"}
	ctx := dispatch.NewContext(nil, nil, nil)

	resp := before.Fn(req, ctx)
	assert.Nil(t, resp)
	_, hasDeadline := req.Raw.Context().Deadline()
	assert.True(t, hasDeadline)

	resp = after.Fn(req, ctx)
	assert.Nil(t, resp)
}

func TestNew_ReportsExpiredDeadline(t *testing.T) {
	before, after := New(WithDuration(time.Nanosecond))
	raw := httptest.NewRequest(http.MethodGet, "http://example.com/slow", nil)
	req := &dispatch.Request{Raw: raw, Path: "/slow"}
	ctx := dispatch.NewContext(nil, nil, nil)

	before.Fn(req, ctx)
	time.Sleep(time.Millisecond)
	resp := after.Fn(req, ctx)

	assert.NotNil(t, resp)
	assert.Equal(t, http.StatusRequestTimeout, resp.Status)
}

func TestNew_SkipsExemptPath(t *testing.T) {
	before, _ := New(WithSkipPaths("/healthz"))
	raw := httptest.NewRequest(http.MethodGet, "http://example.com/healthz", nil)
	req := &dispatch.Request{Raw: raw, Path: "/healthz"}
	ctx := dispatch.NewContext(nil, nil, nil)

	before.Fn(req, ctx)

	_, hasDeadline := req.Raw.Context().Deadline()
	assert.False(t, hasDeadline)
}

func TestNew_SkipsExemptPrefix(t *testing.T) {
	before, _ := New(WithSkipPrefixes("/internal/"))
	raw := httptest.NewRequest(http.MethodGet, "http://example.com/internal/debug", nil)
	req := &dispatch.Request{Raw: raw, Path: "/internal/debug"}
	ctx := dispatch.NewContext(nil, nil, nil)

	before.Fn(req, ctx)

	_, hasDeadline := req.Raw.Context().Deadline()
	assert.False(t, hasDeadline)
}
