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
	"net/http"
	"strconv"
	"strings"

	"github.com/latticehttp/lattice/host"
)

// applyCORS sets the CORS response headers owned natively by the
// dispatcher. It is a no-op if the route doesn't have CORS enabled or no
// allowed origin can be resolved for the request.
func applyCORS(h *host.Host, corsEnabled bool, reqHeader http.Header, out http.Header) {
	if !corsEnabled {
		return
	}

	policy := h.CORS
	origin := reqHeader.Get("Origin")
	allowOrigin := resolveAllowOrigin(policy.AllowOrigins, origin)
	if allowOrigin == "" {
		return
	}

	if len(policy.AllowHeaders) > 0 {
		out.Set("Access-Control-Allow-Headers", strings.Join(policy.AllowHeaders, ", "))
	}
	if len(policy.AllowMethods) > 0 {
		out.Set("Access-Control-Allow-Methods", strings.Join(policy.AllowMethods, ", "))
	}
	out.Set("Access-Control-Allow-Origin", allowOrigin)
	if policy.AllowCredentials {
		out.Set("Access-Control-Allow-Credentials", "true")
	}
	if len(policy.ExposeHeaders) > 0 {
		out.Set("Access-Control-Expose-Headers", strings.Join(policy.ExposeHeaders, ", "))
	}
	if policy.MaxAgeSeconds > 0 {
		out.Set("Access-Control-Max-Age", strconv.Itoa(policy.MaxAgeSeconds))
	}
}

// resolveAllowOrigin: a single configured "*" always wins; otherwise the
// request's Origin must case-insensitively match one of the configured
// literal origins. A request with no Origin header has nothing to match,
// but a single literal configured origin still applies: there's only one
// possible answer, Origin header or not.
func resolveAllowOrigin(configured []string, origin string) string {
	for _, o := range configured {
		if o == "*" {
			return "*"
		}
	}
	if origin == "" {
		if len(configured) == 1 {
			return configured[0]
		}
		return ""
	}
	for _, o := range configured {
		if strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}
