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

// Package compression gzip- or brotli-encodes a response body in place,
// negotiated against the request's Accept-Encoding header.
package compression

import (
	"bytes"
	"compress/gzip"
	"sort"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/latticehttp/lattice/dispatch"
)

// Option configures the compression middleware.
type Option func(*config)

type config struct {
	gzipLevel         int
	brotliLevel       int
	minSize           int
	enableGzip        bool
	enableBrotli      bool
	excludeContentType map[string]bool
}

func defaultConfig() *config {
	return &config{
		gzipLevel:    gzip.DefaultCompression,
		brotliLevel:  5,
		minSize:      256,
		enableGzip:   true,
		enableBrotli: true,
		excludeContentType: map[string]bool{
			"image/png": true, "image/jpeg": true, "image/gif": true,
			"video/mp4": true, "application/zip": true,
		},
	}
}

// WithGzipLevel sets the gzip compression level (0-9).
func WithGzipLevel(level int) Option { return func(c *config) { c.gzipLevel = level } }

// WithBrotliLevel sets the Brotli compression level (0-11).
func WithBrotliLevel(level int) Option { return func(c *config) { c.brotliLevel = level } }

// WithMinSize sets the minimum body size, in bytes, worth compressing.
func WithMinSize(n int) Option { return func(c *config) { c.minSize = n } }

// WithoutBrotli disables Brotli negotiation, leaving only gzip.
func WithoutBrotli() Option { return func(c *config) { c.enableBrotli = false } }

// WithoutGzip disables gzip negotiation, leaving only Brotli.
func WithoutGzip() Option { return func(c *config) { c.enableGzip = false } }

type encodingPref struct {
	name string
	q    float64
}

// chooseEncoding parses Accept-Encoding with q-value negotiation and
// returns "br", "gzip", or "" (no compression).
func chooseEncoding(acceptEncoding string, cfg *config) string {
	if acceptEncoding == "" {
		return ""
	}
	var prefs []encodingPref
	for _, part := range strings.Split(acceptEncoding, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, q := part, 1.0
		if idx := strings.Index(part, ";q="); idx >= 0 {
			name = strings.TrimSpace(part[:idx])
			if parsed, err := strconv.ParseFloat(part[idx+3:], 64); err == nil {
				q = parsed
			}
		}
		prefs = append(prefs, encodingPref{name: name, q: q})
	}
	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].q > prefs[j].q })

	for _, p := range prefs {
		if p.q <= 0 {
			continue
		}
		switch p.name {
		case "br":
			if cfg.enableBrotli {
				return "br"
			}
		case "gzip":
			if cfg.enableGzip {
				return "gzip"
			}
		case "*":
			if cfg.enableBrotli {
				return "br"
			}
			if cfg.enableGzip {
				return "gzip"
			}
		}
	}
	return ""
}

// New returns an AfterResponse middleware that compresses the response
// body in place when the client accepts it, the body is long enough, and
// its content type isn't already compressed.
func New(opts ...Option) *dispatch.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return dispatch.New("compression", dispatch.AfterResponse, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		resp := ctx.Response()
		if resp == nil || resp.Kind != dispatch.KindNormal {
			return nil
		}
		if len(resp.Body) < cfg.minSize {
			return nil
		}
		if cfg.excludeContentType[resp.ContentType] {
			return nil
		}

		encoding := chooseEncoding(req.Header.Get("Accept-Encoding"), cfg)
		if encoding == "" {
			return nil
		}

		var buf bytes.Buffer
		switch encoding {
		case "br":
			w := brotli.NewWriterLevel(&buf, cfg.brotliLevel)
			if _, err := w.Write(resp.Body); err != nil {
				return nil
			}
			if err := w.Close(); err != nil {
				return nil
			}
		case "gzip":
			w, err := gzip.NewWriterLevel(&buf, cfg.gzipLevel)
			if err != nil {
				return nil
			}
			if _, err := w.Write(resp.Body); err != nil {
				return nil
			}
			if err := w.Close(); err != nil {
				return nil
			}
		}

		resp.Body = buf.Bytes()
		resp.WithHeader("Content-Encoding", encoding)
		resp.WithHeader("Vary", "Accept-Encoding")
		return nil
	})
}
