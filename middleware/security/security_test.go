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

package security

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latticehttp/lattice/dispatch"
)

func TestNew_DefaultHeaders(t *testing.T) {
	mw := New()
	resp := dispatch.NewResponse(http.StatusOK, nil)
	ctx := dispatch.NewContext(nil, nil, nil)
	ctx.SetResponse(resp)

	out := mw.Fn(&dispatch.Request{}, ctx)

	assert.Nil(t, out)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'self'", resp.Header.Get("Content-Security-Policy"))
	assert.Empty(t, resp.Header.Get("Strict-Transport-Security"))
}

func TestNew_HSTS(t *testing.T) {
	mw := New(WithHSTS(31536000, true, true))
	resp := dispatch.NewResponse(http.StatusOK, nil)
	ctx := dispatch.NewContext(nil, nil, nil)
	ctx.SetResponse(resp)

	mw.Fn(&dispatch.Request{}, ctx)

	assert.Equal(t, "max-age=31536000; includeSubDomains; preload", resp.Header.Get("Strict-Transport-Security"))
}

func TestNew_DisabledHeadersOmitted(t *testing.T) {
	mw := New(WithFrameOptions(""), WithoutContentTypeNosniff())
	resp := dispatch.NewResponse(http.StatusOK, nil)
	ctx := dispatch.NewContext(nil, nil, nil)
	ctx.SetResponse(resp)

	mw.Fn(&dispatch.Request{}, ctx)

	assert.Empty(t, resp.Header.Get("X-Frame-Options"))
	assert.Empty(t, resp.Header.Get("X-Content-Type-Options"))
}

func TestNew_CustomHeader(t *testing.T) {
	mw := New(WithHeader("X-Custom", "value"))
	resp := dispatch.NewResponse(http.StatusOK, nil)
	ctx := dispatch.NewContext(nil, nil, nil)
	ctx.SetResponse(resp)

	mw.Fn(&dispatch.Request{}, ctx)

	assert.Equal(t, "value", resp.Header.Get("X-Custom"))
}

func TestNew_NoResponseYet(t *testing.T) {
	mw := New()
	ctx := dispatch.NewContext(nil, nil, nil)

	out := mw.Fn(&dispatch.Request{}, ctx)

	assert.Nil(t, out)
}
