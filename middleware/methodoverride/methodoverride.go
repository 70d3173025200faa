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

// Package methodoverride lets clients that can only send GET/POST (plain
// HTML forms) override the effective method via a header or query
// parameter.
//
// Unlike the dispatch package's per-route middleware, this has to run
// before route lookup — the overridden method is what gets matched — so it
// wraps the Dispatcher as an outer http.Handler rather than registering as
// a dispatch.Middleware.
package methodoverride

import (
	"net/http"
	"strings"
)

// Option configures the methodoverride wrapper.
type Option func(*config)

type config struct {
	header    string
	query     string
	allow     map[string]bool
	onlyOn    map[string]bool
}

func defaultConfig() *config {
	return &config{
		header: "X-HTTP-Method-Override",
		query:  "_method",
		allow:  map[string]bool{"PUT": true, "PATCH": true, "DELETE": true},
		onlyOn: map[string]bool{"POST": true},
	}
}

// WithHeader overrides the header name consulted for the override method.
func WithHeader(name string) Option { return func(c *config) { c.header = name } }

// WithQueryParam overrides the query parameter name consulted as a fallback.
func WithQueryParam(name string) Option { return func(c *config) { c.query = name } }

// WithAllow restricts which overridden methods are accepted.
func WithAllow(methods ...string) Option {
	return func(c *config) {
		allow := make(map[string]bool, len(methods))
		for _, m := range methods {
			allow[strings.ToUpper(m)] = true
		}
		c.allow = allow
	}
}

// WithOnlyOn restricts which original methods are eligible for override
// (HTML forms only ever send GET or POST, so the default is POST-only).
func WithOnlyOn(methods ...string) Option {
	return func(c *config) {
		only := make(map[string]bool, len(methods))
		for _, m := range methods {
			only[strings.ToUpper(m)] = true
		}
		c.onlyOn = only
	}
}

// Wrap returns next wrapped so that, when the original request method is
// eligible, the overridden method (if allowed) replaces r.Method before
// next sees the request.
func Wrap(next http.Handler, opts ...Option) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		original := strings.ToUpper(r.Method)
		if cfg.onlyOn[original] {
			override := r.Header.Get(cfg.header)
			if override == "" && cfg.query != "" {
				override = r.URL.Query().Get(cfg.query)
			}
			override = strings.ToUpper(override)
			if override != "" && cfg.allow[override] {
				r.Method = override
			}
		}
		next.ServeHTTP(w, r)
	})
}
