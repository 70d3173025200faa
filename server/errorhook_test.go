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

package server

import (
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehttp/lattice/dispatch"
	"github.com/latticehttp/lattice/errors"
)

func TestErrorHook_FormatsRecoveredError(t *testing.T) {
	hook := ErrorHook(errors.NewSimple())
	raw := httptest.NewRequest(http.MethodGet, "http://example.com/boom", nil)
	req := &dispatch.Request{Raw: raw}

	resp := hook(req, dispatch.NewContext(nil, nil, nil), goerrors.New("kaboom"))

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Contains(t, string(resp.Body), "kaboom")
}

func TestErrorHook_FormatsNonErrorPanic(t *testing.T) {
	hook := ErrorHook(errors.NewSimple())
	raw := httptest.NewRequest(http.MethodGet, "http://example.com/boom", nil)
	req := &dispatch.Request{Raw: raw}

	resp := hook(req, dispatch.NewContext(nil, nil, nil), "a bare string panic")

	require.NotNil(t, resp)
	assert.Contains(t, string(resp.Body), "a bare string panic")
}

func TestDefaultErrorHook_FormatsAsProblemDetails(t *testing.T) {
	hook := DefaultErrorHook("https://lattice.example/problems")
	raw := httptest.NewRequest(http.MethodGet, "http://example.com/widgets/42", nil)
	req := &dispatch.Request{Raw: raw}

	resp := hook(req, dispatch.NewContext(nil, nil, nil), goerrors.New("kaboom"))

	require.NotNil(t, resp)
	assert.Equal(t, "application/problem+json; charset=utf-8", resp.ContentType)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Contains(t, string(resp.Body), "kaboom")
}
