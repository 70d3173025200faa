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

package dispatch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehttp/lattice/host"
	"github.com/latticehttp/lattice/router"
)

func newTestHost(t *testing.T) *host.Host {
	t.Helper()
	return host.New("test", true, false, host.Port{Hostname: "example.com", Number: 80})
}

func registerRoute(t *testing.T, h *host.Host, methods router.MethodMask, path string, handler HandlerFunc) *router.Route {
	t.Helper()
	route, err := router.NewRoute(methods, path, true, handler)
	require.NoError(t, err)
	require.NoError(t, h.Table.Register(route))
	return route
}

func TestDispatcher_ParameterExtraction(t *testing.T) {
	h := newTestHost(t)
	registerRoute(t, h, router.MethodGet, "/users/<id>/profile", func(req *Request, ctx *Context) *Response {
		assert.Equal(t, "42", req.Query.Get("id"))
		assert.Equal(t, "en", req.Query.Get("lang"))
		return NewResponse(http.StatusOK, []byte("ok"))
	})
	d := New(host.NewResolver(h), 80)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/users/42/profile?lang=en", nil)
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestDispatcher_CORSPreflight(t *testing.T) {
	h := newTestHost(t)
	h.CORS = host.CORSPolicy{
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"X-Auth"},
		AllowOrigins:  []string{"*"},
		MaxAgeSeconds: 3600,
	}
	route := registerRoute(t, h, router.MethodGet, "/anything", func(req *Request, ctx *Context) *Response {
		t.Fatal("handler must not be invoked for OPTIONS preflight")
		return nil
	})
	route.CORSEnable = true
	d := New(host.NewResolver(h), 80)

	req := httptest.NewRequest(http.MethodOptions, "http://example.com/anything", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "X-Auth", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestDispatcher_MethodMismatch(t *testing.T) {
	h := newTestHost(t)
	registerRoute(t, h, router.MethodPost, "/api/items", func(req *Request, ctx *Context) *Response {
		return NewResponse(http.StatusOK, nil)
	})
	d := New(host.NewResolver(h), 80)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/items", nil)
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDispatcher_MiddlewareShortCircuit(t *testing.T) {
	h := newTestHost(t)
	handlerCalled := false
	l1Called := false
	m2Called := false

	route := registerRoute(t, h, router.MethodGet, "/short", func(req *Request, ctx *Context) *Response {
		handlerCalled = true
		return NewResponse(http.StatusOK, nil)
	})
	route.Use(New("l1", BeforeResponse, func(req *Request, ctx *Context) *Response {
		l1Called = true
		return nil
	}))

	m1 := New("m1", BeforeResponse, func(req *Request, ctx *Context) *Response {
		return NewResponse(418, nil)
	})
	m2 := New("m2", AfterResponse, func(req *Request, ctx *Context) *Response {
		m2Called = true
		return nil
	})

	d := New(host.NewResolver(h), 80, WithGlobalMiddleware(m1, m2))

	req := httptest.NewRequest(http.MethodGet, "http://example.com/short", nil)
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, 418, rec.Code)
	assert.False(t, handlerCalled)
	assert.False(t, l1Called)
	assert.False(t, m2Called)
}

func TestDispatcher_NotFound(t *testing.T) {
	h := newTestHost(t)
	d := New(host.NewResolver(h), 80)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/nope", nil)
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatcher_UnknownHost(t *testing.T) {
	h := newTestHost(t)
	d := New(host.NewResolver(h), 80)

	req := httptest.NewRequest(http.MethodGet, "http://other.com/anything", nil)
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatcher_TrailingSlashRedirect(t *testing.T) {
	h := newTestHost(t)
	h.ForceTrailingSlash = true
	registerRoute(t, h, router.MethodGet, "/foo/", func(req *Request, ctx *Context) *Response {
		return NewResponse(http.StatusOK, nil)
	})
	d := New(host.NewResolver(h), 80)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/foo?x=1", nil)
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/foo/?x=1", rec.Header().Get("Location"))
}

func TestDispatcher_HeadSuppressesBody(t *testing.T) {
	h := newTestHost(t)
	h.TreatHeadAsGet = true
	registerRoute(t, h, router.MethodGet, "/a", func(req *Request, ctx *Context) *Response {
		return NewResponse(http.StatusOK, []byte("hello"))
	})
	d := New(host.NewResolver(h), 80)

	req := httptest.NewRequest(http.MethodHead, "http://example.com/a", nil)
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDispatcher_BodyTooLarge(t *testing.T) {
	h := newTestHost(t)
	registerRoute(t, h, router.MethodPost, "/upload", func(req *Request, ctx *Context) *Response {
		return NewResponse(http.StatusOK, nil)
	})
	d := New(host.NewResolver(h), 80, WithMaxContentLength(4))

	req := httptest.NewRequest(http.MethodPost, "http://example.com/upload", nil)
	req.ContentLength = 1000
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
