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

package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routeNotFoundError and bodyTooLargeError stand in for the kind of
// dispatch-domain errors a handler might return or a panic might carry.
type routeNotFoundError struct{ path string }

func (e *routeNotFoundError) Error() string    { return "no route for " + e.path }
func (e *routeNotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *routeNotFoundError) Code() string     { return "route_not_found" }
func (e *routeNotFoundError) Details() any     { return map[string]string{"path": e.path} }

type bodyTooLargeError struct{ limit int64 }

func (e *bodyTooLargeError) Error() string { return "request body exceeds limit" }

func TestSimple_FormatsPlainError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	resp := NewSimple().Format(req, &bodyTooLargeError{limit: 1024})

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, "application/json; charset=utf-8", resp.ContentType)
	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "request body exceeds limit", body["error"])
	assert.NotContains(t, body, "code")
}

func TestSimple_CarriesCodeAndDetailsFromError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/widgets/42", nil)
	resp := NewSimple().Format(req, &routeNotFoundError{path: "/widgets/42"})

	assert.Equal(t, http.StatusNotFound, resp.Status)
	body := resp.Body.(map[string]any)
	assert.Equal(t, "route_not_found", body["code"])
	assert.Equal(t, map[string]string{"path": "/widgets/42"}, body["details"])
}

func TestSimple_StatusResolverOverridesErrorType(t *testing.T) {
	f := &Simple{StatusResolver: func(error) int { return http.StatusTeapot }}
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	resp := f.Format(req, &routeNotFoundError{path: "/x"})

	assert.Equal(t, http.StatusTeapot, resp.Status)
}
