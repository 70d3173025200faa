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

// Package timeout attaches a deadline to the request's context. Handlers
// cooperate by checking ctx.Done(); the middleware cannot preempt a
// blocking handler that ignores it — Go has no mechanism to do that safely.
package timeout

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/latticehttp/lattice/dispatch"
)

// Option configures the timeout middleware.
type Option func(*config)

type config struct {
	duration        time.Duration
	skipPaths       map[string]bool
	skipPrefixes    []string
}

func defaultConfig() *config {
	return &config{duration: 30 * time.Second, skipPaths: make(map[string]bool)}
}

// WithDuration overrides the default 30-second deadline.
func WithDuration(d time.Duration) Option { return func(c *config) { c.duration = d } }

// WithSkipPaths exempts exact-match paths from the deadline.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

// WithSkipPrefixes exempts any path under the given prefixes.
func WithSkipPrefixes(prefixes ...string) Option {
	return func(c *config) { c.skipPrefixes = append(c.skipPrefixes, prefixes...) }
}

// New returns a BeforeContents middleware that attaches a deadline
// context to the request, and an AfterResponse check that turns an
// already-expired deadline into a 408 if the handler didn't itself
// notice.
func New(opts ...Option) (*dispatch.Middleware, *dispatch.Middleware) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	before := dispatch.New("timeout:attach", dispatch.BeforeContents, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		if skip(cfg, req.Path) {
			return nil
		}
		deadlineCtx, cancel := context.WithTimeout(req.Raw.Context(), cfg.duration)
		ctx.Set("timeout:cancel", cancel)
		req.Raw = req.Raw.WithContext(deadlineCtx)
		return nil
	})

	after := dispatch.New("timeout:check", dispatch.AfterResponse, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		if cancel, ok := ctx.Get("timeout:cancel"); ok {
			cancel.(context.CancelFunc)()
		}
		if err := req.Raw.Context().Err(); err == context.DeadlineExceeded {
			return dispatch.Text(http.StatusRequestTimeout, "")
		}
		return nil
	})

	return before, after
}

func skip(cfg *config, path string) bool {
	if cfg.skipPaths[path] {
		return true
	}
	for _, prefix := range cfg.skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
