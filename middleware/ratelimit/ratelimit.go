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

// Package ratelimit throttles requests per key using a token bucket per
// key, keyed by client address by default.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/latticehttp/lattice/dispatch"
)

// KeyFunc derives the rate-limit bucket key for a request.
type KeyFunc func(*dispatch.Request) string

// Option configures the ratelimit middleware.
type Option func(*config)

type config struct {
	ratePerSecond float64
	burst         int
	key           KeyFunc
	headers       bool
}

func defaultConfig() *config {
	return &config{
		ratePerSecond: 10,
		burst:         20,
		key:           func(req *dispatch.Request) string { return req.RemoteAddr },
		headers:       true,
	}
}

// WithRate sets the refill rate and burst capacity of each key's bucket.
func WithRate(perSecond float64, burst int) Option {
	return func(c *config) { c.ratePerSecond = perSecond; c.burst = burst }
}

// WithKeyFunc overrides the default per-remote-address key.
func WithKeyFunc(fn KeyFunc) Option { return func(c *config) { c.key = fn } }

// WithoutHeaders suppresses the RateLimit-* response headers.
func WithoutHeaders() Option { return func(c *config) { c.headers = false } }

type buckets struct {
	mu      sync.Mutex
	byKey   map[string]*rate.Limiter
	perSec  float64
	burst   int
}

func (b *buckets) get(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.byKey[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(b.perSec), b.burst)
		b.byKey[key] = l
	}
	return l
}

// New returns a BeforeContents middleware that rejects requests over the
// configured rate with 429, once its key's bucket is exhausted.
func New(opts ...Option) *dispatch.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	b := &buckets{byKey: make(map[string]*rate.Limiter), perSec: cfg.ratePerSecond, burst: cfg.burst}

	return dispatch.New("ratelimit", dispatch.BeforeContents, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		limiter := b.get(cfg.key(req))
		if !limiter.Allow() {
			resp := dispatch.Text(http.StatusTooManyRequests, "")
			if cfg.headers {
				resp.WithHeader("RateLimit-Limit", strconv.Itoa(cfg.burst))
				resp.WithHeader("RateLimit-Remaining", "0")
			}
			return resp
		}
		if cfg.headers {
			ctx.Set("ratelimit:remaining", int(limiter.Tokens()))
		}
		return nil
	})
}
