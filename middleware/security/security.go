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

// Package security sets the standard set of hardening response headers.
package security

import (
	"fmt"

	"github.com/latticehttp/lattice/dispatch"
)

// Option configures the security middleware.
type Option func(*config)

type config struct {
	frameOptions          string
	contentTypeNosniff    bool
	xssProtection         string
	contentSecurityPolicy string
	referrerPolicy        string
	permissionsPolicy     string
	hstsMaxAge            int
	hstsIncludeSubDomains bool
	hstsPreload           bool
	customHeaders         map[string]string
}

func defaultConfig() *config {
	return &config{
		frameOptions:          "DENY",
		contentTypeNosniff:    true,
		xssProtection:         "1; mode=block",
		contentSecurityPolicy: "default-src 'self'",
		referrerPolicy:        "strict-origin-when-cross-origin",
		customHeaders:         make(map[string]string),
	}
}

// WithFrameOptions overrides X-Frame-Options ("" disables the header).
func WithFrameOptions(value string) Option { return func(c *config) { c.frameOptions = value } }

// WithoutContentTypeNosniff disables X-Content-Type-Options.
func WithoutContentTypeNosniff() Option { return func(c *config) { c.contentTypeNosniff = false } }

// WithXSSProtection overrides X-XSS-Protection.
func WithXSSProtection(value string) Option { return func(c *config) { c.xssProtection = value } }

// WithCSP overrides Content-Security-Policy.
func WithCSP(value string) Option { return func(c *config) { c.contentSecurityPolicy = value } }

// WithReferrerPolicy overrides Referrer-Policy.
func WithReferrerPolicy(value string) Option { return func(c *config) { c.referrerPolicy = value } }

// WithPermissionsPolicy sets Permissions-Policy.
func WithPermissionsPolicy(value string) Option {
	return func(c *config) { c.permissionsPolicy = value }
}

// WithHSTS enables Strict-Transport-Security.
func WithHSTS(maxAgeSeconds int, includeSubDomains, preload bool) Option {
	return func(c *config) {
		c.hstsMaxAge = maxAgeSeconds
		c.hstsIncludeSubDomains = includeSubDomains
		c.hstsPreload = preload
	}
}

// WithHeader sets an arbitrary additional header.
func WithHeader(name, value string) Option {
	return func(c *config) { c.customHeaders[name] = value }
}

// New returns an AfterResponse middleware that sets hardening headers on
// the response the handler produced.
func New(opts ...Option) *dispatch.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return dispatch.New("security", dispatch.AfterResponse, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		resp := ctx.Response()
		if resp == nil {
			return nil
		}
		apply(cfg, resp)
		return nil
	})
}

func apply(cfg *config, resp *dispatch.Response) {
	if cfg.frameOptions != "" {
		resp.WithHeader("X-Frame-Options", cfg.frameOptions)
	}
	if cfg.contentTypeNosniff {
		resp.WithHeader("X-Content-Type-Options", "nosniff")
	}
	if cfg.xssProtection != "" {
		resp.WithHeader("X-XSS-Protection", cfg.xssProtection)
	}
	if cfg.contentSecurityPolicy != "" {
		resp.WithHeader("Content-Security-Policy", cfg.contentSecurityPolicy)
	}
	if cfg.referrerPolicy != "" {
		resp.WithHeader("Referrer-Policy", cfg.referrerPolicy)
	}
	if cfg.permissionsPolicy != "" {
		resp.WithHeader("Permissions-Policy", cfg.permissionsPolicy)
	}
	if cfg.hstsMaxAge > 0 {
		value := fmt.Sprintf("max-age=%d", cfg.hstsMaxAge)
		if cfg.hstsIncludeSubDomains {
			value += "; includeSubDomains"
		}
		if cfg.hstsPreload {
			value += "; preload"
		}
		resp.WithHeader("Strict-Transport-Security", value)
	}
	for k, v := range cfg.customHeaders {
		resp.WithHeader(k, v)
	}
}
