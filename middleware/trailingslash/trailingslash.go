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

// Package trailingslash strips a trailing slash before routing, the
// complement of the host's own ForceTrailingSlash policy, which
// only ever adds one. Since the decision changes the path that gets
// matched, this wraps the Dispatcher as an outer http.Handler rather than
// registering as route-local middleware.
package trailingslash

import (
	"net/http"
	"strings"
)

// Wrap returns next wrapped so that a request path longer than "/" and
// ending in "/" is redirected (308) to its slash-stripped form before
// reaching next.
func Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) > 1 && strings.HasSuffix(r.URL.Path, "/") {
			stripped := strings.TrimRight(r.URL.Path, "/")
			if stripped == "" {
				stripped = "/"
			}
			loc := stripped
			if r.URL.RawQuery != "" {
				loc += "?" + r.URL.RawQuery
			}
			w.Header().Set("Location", loc)
			w.WriteHeader(http.StatusPermanentRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
