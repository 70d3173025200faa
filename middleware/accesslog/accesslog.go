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

// Package accesslog logs one structured line per request, with its
// resolved outcome status and elapsed time.
package accesslog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/latticehttp/lattice/dispatch"
	"github.com/latticehttp/lattice/logging"
)

// Option configures the accesslog middleware.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	structured      *logging.Logger
	excludePaths    map[string]bool
	excludePrefixes []string
	slowThreshold   time.Duration
}

func defaultConfig() *config {
	return &config{logger: slog.Default(), excludePaths: make(map[string]bool)}
}

// WithLogger overrides the destination logger.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l; c.structured = nil } }

// WithStructuredLogger routes access log lines through a logging.Logger
// instead of a bare slog.Logger, so its service metadata, sampling, and
// redaction apply to request lines too. When both this and WithLogger are
// given, the one passed last applies.
func WithStructuredLogger(l *logging.Logger) Option {
	return func(c *config) { c.structured = l }
}

// WithExcludePaths skips exact-match paths (e.g. health checks).
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips any path under the given prefixes.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(c *config) { c.excludePrefixes = append(c.excludePrefixes, prefixes...) }
}

// WithSlowThreshold marks requests whose elapsed time exceeds threshold:
// the plain slog.Logger path logs them at warn level instead of info; the
// WithStructuredLogger path keeps its level and adds a "slow" field.
func WithSlowThreshold(threshold time.Duration) Option {
	return func(c *config) { c.slowThreshold = threshold }
}

// New returns an AfterResponse middleware logging method, path, status, and
// elapsed time. It runs at its place in registration order among the
// AfterResponse middleware, so it sees the response as changed by the
// AfterResponse middleware registered before it.
func New(opts ...Option) *dispatch.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return dispatch.New("accesslog", dispatch.AfterResponse, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		if cfg.excludePaths[req.Path] {
			return nil
		}
		for _, prefix := range cfg.excludePrefixes {
			if strings.HasPrefix(req.Path, prefix) {
				return nil
			}
		}

		elapsed := time.Since(req.Arrival)
		status := 0
		if resp := ctx.Response(); resp != nil {
			status = resp.Status
		}
		slow := cfg.slowThreshold > 0 && elapsed > cfg.slowThreshold

		if cfg.structured != nil {
			if status >= 500 {
				cfg.structured.LogError(statusError(status), "request", "method", req.Method, "path", req.Path, "request_id", req.ID)
			} else {
				cfg.structured.LogDuration("request", req.Arrival, "method", req.Method, "path", req.Path, "status", status, "request_id", req.ID, "slow", slow)
			}
			return nil
		}

		level := slog.LevelInfo
		if slow {
			level = slog.LevelWarn
		}
		cfg.logger.Log(context.Background(), level, "request",
			"method", req.Method,
			"path", req.Path,
			"status", status,
			"elapsed", elapsed,
			"request_id", req.ID,
		)
		return nil
	})
}

// statusError turns a final response status into an error value so
// LogError's "error" field carries something readable for a request that
// ended in a server error.
func statusError(status int) error {
	return fmt.Errorf("response status %d", status)
}
