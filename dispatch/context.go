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
	"log/slog"

	"github.com/latticehttp/lattice/host"
	"github.com/latticehttp/lattice/router"
)

// Context is the per-request key/value scratch map threaded through every
// handler and middleware call. It is single-owner and unlocked: one
// dispatch goroutine ever touches it.
type Context struct {
	Host   *host.Host
	Route  *router.Route
	Logger *slog.Logger

	// response is the response produced by the handler, visible to
	// AfterResponse middleware so it can inspect or rewrite headers/body
	// without having to replace the whole value.
	response *Response

	scratch map[string]any
}

// NewContext constructs a Context for h and route. Exposed so a
// middleware's own tests can drive its HandlerFunc directly without going
// through a full Dispatcher.
func NewContext(h *host.Host, route *router.Route, logger *slog.Logger) *Context {
	return &Context{Host: h, Route: route, Logger: logger, scratch: make(map[string]any)}
}

// Set stores a value in the request's scratch map.
func (c *Context) Set(key string, value any) {
	c.scratch[key] = value
}

// Get retrieves a value from the request's scratch map.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.scratch[key]
	return v, ok
}

// GetString retrieves a string value, returning "" if absent or of another type.
func (c *Context) GetString(key string) string {
	if v, ok := c.scratch[key].(string); ok {
		return v
	}
	return ""
}

// Response returns the response produced so far by the handler.
// AfterResponse middleware uses this to inspect or
// mutate headers and body in place; nil before phase 3 starts.
func (c *Context) Response() *Response { return c.response }

// SetResponse records the response produced so far. The dispatcher calls
// this once per request before running AfterResponse middleware; exposed
// so a middleware's own tests can seed a Context without a full Dispatcher.
func (c *Context) SetResponse(r *Response) { c.response = r }
