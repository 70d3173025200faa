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

package host

import (
	"errors"
	"strings"

	"github.com/latticehttp/lattice/router"
)

// Resolver errors.
var (
	// ErrUnknownHost is returned when the requested hostname matches no
	// configured host's pattern on the listening port.
	ErrUnknownHost = errors.New("host: no listening host matches the requested hostname")
	// ErrNoHostsConfigured is returned when the resolver has no hosts to
	// consider at all.
	ErrNoHostsConfigured = errors.New("host: no listening hosts are configured")
)

// Resolver selects a Host for an incoming (hostname, port) pair.
// Hosts are tried in the order they were added; the first whose port list
// contains numPort and whose hostname pattern wildcard-matches wins.
type Resolver struct {
	hosts []*Host
}

// NewResolver constructs a Resolver over hosts, preserving order — order
// matters because resolution, like route lookup, is first-match.
func NewResolver(hosts ...*Host) *Resolver {
	return &Resolver{hosts: hosts}
}

// Add registers an additional host, tried after all previously added hosts.
func (r *Resolver) Add(h *Host) {
	r.hosts = append(r.hosts, h)
}

// Resolve finds the matching Host for the request's Host header value
// (already split from any forwarding override by the caller) and the
// numeric listening port the connection arrived on.
//
// requestHost may carry a ":port" suffix (as raw Host headers do); it is
// stripped before pattern matching. An empty requestHost never matches.
func (r *Resolver) Resolve(requestHost string, numPort int) (*Host, error) {
	if len(r.hosts) == 0 {
		return nil, ErrNoHostsConfigured
	}
	hostname := stripPort(requestHost)
	if hostname == "" {
		return nil, ErrUnknownHost
	}

	for _, h := range r.hosts {
		for _, p := range h.portsForNumber(numPort) {
			if router.MatchWildcardHost(p.Hostname, hostname) {
				return h, nil
			}
		}
	}
	return nil, ErrUnknownHost
}

// EffectiveHostname applies the X-Forwarded-Host override: when trust is
// true and forwardedHost is non-empty, it takes precedence over the
// connection's own Host header value. Only the first comma-separated value
// is honored, matching the convention for X-Forwarded-* chains.
func EffectiveHostname(trust bool, hostHeader, forwardedHost string) string {
	if trust {
		if first, _, _ := strings.Cut(forwardedHost, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}
	return hostHeader
}

func stripPort(hostport string) string {
	host, _, found := strings.Cut(hostport, ":")
	if !found {
		return hostport
	}
	return host
}
