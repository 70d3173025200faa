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

// Package basicauth implements HTTP Basic Authentication (RFC 7617).
package basicauth

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/latticehttp/lattice/dispatch"
)

// Option configures the basicauth middleware.
type Option func(*config)

type config struct {
	users     map[string]string
	realm     string
	validator func(username, password string) bool
	skipPaths map[string]bool
}

func defaultConfig() *config {
	return &config{users: make(map[string]string), realm: "Restricted", skipPaths: make(map[string]bool)}
}

// WithUsers sets the static username/password table.
func WithUsers(users map[string]string) Option {
	return func(c *config) { c.users = users }
}

// WithRealm overrides the authentication realm.
func WithRealm(realm string) Option { return func(c *config) { c.realm = realm } }

// WithValidator replaces the static user table with a custom check,
// e.g. a database lookup.
func WithValidator(fn func(username, password string) bool) Option {
	return func(c *config) { c.validator = fn }
}

// WithSkipPaths exempts exact-match paths from authentication.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

// New returns a BeforeContents middleware enforcing HTTP Basic
// Authentication; it compares credentials in constant time and never
// caches a decision across requests.
func New(opts ...Option) *dispatch.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	authenticate := `Basic realm="` + cfg.realm + `"`

	return dispatch.New("basicauth", dispatch.BeforeContents, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		if cfg.skipPaths[req.Path] {
			return nil
		}

		username, password, ok := parseBasicAuth(req.Header.Get("Authorization"))
		if !ok || !validate(cfg, username, password) {
			return dispatch.Text(http.StatusUnauthorized, "").WithHeader("WWW-Authenticate", authenticate)
		}
		ctx.Set("basicauth:user", username)
		return nil
	})
}

// User returns the authenticated username stashed by New, or "".
func User(ctx *dispatch.Context) string { return ctx.GetString("basicauth:user") }

func parseBasicAuth(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	colon := strings.IndexByte(string(decoded), ':')
	if colon == -1 {
		return "", "", false
	}
	return string(decoded[:colon]), string(decoded[colon+1:]), true
}

func validate(cfg *config, username, password string) bool {
	if cfg.validator != nil {
		return cfg.validator(username, password)
	}
	expected, exists := cfg.users[username]
	if !exists {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1
}
