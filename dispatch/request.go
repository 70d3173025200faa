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

// Package dispatch implements the request-execution core: the three-phase
// middleware pipeline and the request dispatcher that drives
// host resolution, route lookup, body loading, middleware, and response
// serialization for every accepted connection.
package dispatch

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request is the core view of an in-flight HTTP request. It wraps the
// stdlib *http.Request and layers on the fields the
// dispatcher computes during its pipeline: the possibly-rewritten remote
// address and host, the parsed cookie map, the lazily-loaded body, and the
// merged path-parameter/query set.
type Request struct {
	Raw *http.Request

	Method string
	Path   string

	// Query holds the parsed query string, mutated once by the dispatcher to
	// merge in the matched route's path parameters.
	Query url.Values

	Header  http.Header
	Cookies map[string]string

	// RemoteAddr is possibly rewritten from X-Forwarded-For.
	RemoteAddr string
	// Host is possibly rewritten from X-Forwarded-Host.
	Host string

	// Body is absent (nil) until the dispatcher's body-loading step runs.
	Body []byte

	// ID is a random 128-bit request token in canonical UUID form.
	ID string

	Arrival time.Time

	// Params holds the path parameters extracted by the matched route's
	// pattern, prior to merging into Query.
	Params map[string]string
}

// newRequest builds the core Request view from a raw *http.Request. Cookie
// parsing, forwarded-header rewriting, and body loading happen later in the
// dispatcher's pipeline; this constructor only captures what is available
// immediately at accept time.
func newRequest(r *http.Request) *Request {
	return &Request{
		Raw:        r,
		Method:     r.Method,
		Path:       r.URL.Path,
		Query:      r.URL.Query(),
		Header:     r.Header,
		RemoteAddr: r.RemoteAddr,
		Host:       r.Host,
		ID:         uuid.NewString(),
		Arrival:    time.Now(),
	}
}

// mergeParams merges path parameters into the query set exactly once,
// after a route matches and before any middleware runs.
func (req *Request) mergeParams(params map[string]string) {
	req.Params = params
	if len(params) == 0 {
		return
	}
	if req.Query == nil {
		req.Query = make(url.Values, len(params))
	}
	for k, v := range params {
		req.Query.Set(k, v)
	}
}

// parseCookies parses the Cookie header into a case-preserving map. A
// pair with no "=" is malformed.
func parseCookies(header string) (map[string]string, error) {
	cookies := make(map[string]string)
	if header == "" {
		return cookies, nil
	}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, ErrMalformedCookie
		}
		cookies[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return cookies, nil
}

// firstForwardedFor takes the first comma-separated entry of
// X-Forwarded-For.
func firstForwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}
