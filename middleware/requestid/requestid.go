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

// Package requestid lets a client-supplied request identifier override the
// dispatcher's own generated one, when the embedding program trusts its
// callers to set it.
package requestid

import "github.com/latticehttp/lattice/dispatch"

// Option configures the requestid middleware.
type Option func(*config)

type config struct {
	headerName    string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{headerName: "X-Request-ID", allowClientID: true}
}

// WithHeader sets the header the middleware reads the client ID from. The
// middleware writes no response header.
func WithHeader(name string) Option {
	return func(c *config) { c.headerName = name }
}

// WithAllowClientID controls whether a client-supplied ID is honored.
func WithAllowClientID(allowed bool) Option {
	return func(c *config) { c.allowClientID = allowed }
}

// New returns a BeforeContents middleware that, when a client ID is allowed
// and present, replaces Request.ID with it before any downstream middleware
// or the handler observes it.
func New(opts ...Option) *dispatch.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return dispatch.New("requestid", dispatch.BeforeContents, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		if cfg.allowClientID {
			if clientID := req.Header.Get(cfg.headerName); clientID != "" {
				req.ID = clientID
			}
		}
		ctx.Set("requestID", req.ID)
		return nil
	})
}

// Get retrieves the request ID stashed by New, or the empty string.
func Get(ctx *dispatch.Context) string {
	return ctx.GetString("requestID")
}
