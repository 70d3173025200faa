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

// Package host implements the Listening Host / Listening Port data model
// and the host resolver: given (hostname, port), select the listening
// host whose wildcard-DNS pattern matches.
package host

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/latticehttp/lattice/router"
)

// Port is the triple (secure, hostname-pattern, port) identifying one
// listening port.
type Port struct {
	Secure   bool
	Hostname string // DNS wildcard pattern
	Number   int
}

// ParsePortURL parses the port URL grammar
// "http|https://hostname:port/" — all three parts required.
func ParsePortURL(raw string) (Port, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Port{}, fmt.Errorf("host: invalid port URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Port{}, fmt.Errorf("host: port URL %q must use http or https", raw)
	}
	if !strings.HasSuffix(raw, "/") {
		return Port{}, fmt.Errorf("host: port URL %q must end in '/'", raw)
	}
	if u.Port() == "" {
		return Port{}, fmt.Errorf("host: port URL %q is missing a port", raw)
	}
	num, err := strconv.Atoi(u.Port())
	if err != nil {
		return Port{}, fmt.Errorf("host: port URL %q has a non-numeric port: %w", raw, err)
	}
	if u.Hostname() == "" {
		return Port{}, fmt.Errorf("host: port URL %q is missing a hostname", raw)
	}
	return Port{Secure: u.Scheme == "https", Hostname: u.Hostname(), Number: num}, nil
}

// String reconstructs the canonical port URL, round-tripping ParsePortURL.
func (p Port) String() string {
	scheme := "http"
	if p.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/", scheme, p.Hostname, p.Number)
}

// CORSPolicy is the CORS configuration carried by a Host.
type CORSPolicy struct {
	AllowMethods     []string
	AllowHeaders     []string
	AllowOrigins     []string // literal origins; a single "*" allows any
	AllowCredentials bool
	ExposeHeaders    []string
	MaxAgeSeconds    int
}

// Host is a listening host bundle: CORS policy, ordered ports, route
// table, and a human-readable label.
type Host struct {
	Label string
	Ports []Port
	CORS  CORSPolicy
	Table *router.Table

	// CaseSensitive governs pattern and regex comparison for this host's
	// routes (threaded through at Table construction).
	CaseSensitive bool
	// TreatHeadAsGet implements the HEAD/GET fallback.
	TreatHeadAsGet bool
	// ForceTrailingSlash makes a request that fully matches a template-mode
	// route, with a path lacking a trailing "/", answer 301 to the path plus
	// "/" (query string kept).
	ForceTrailingSlash bool
}

// New constructs a Host with an empty route table.
func New(label string, caseSensitive, treatHeadAsGet bool, ports ...Port) *Host {
	return &Host{
		Label:          label,
		Ports:          ports,
		Table:          router.NewTable(caseSensitive, treatHeadAsGet),
		CaseSensitive:  caseSensitive,
		TreatHeadAsGet: treatHeadAsGet,
	}
}

// Equal reports host equality: two hosts are equal iff their port lists are
// elementwise equal.
func (h *Host) Equal(other *Host) bool {
	if other == nil || len(h.Ports) != len(other.Ports) {
		return false
	}
	for i := range h.Ports {
		if h.Ports[i] != other.Ports[i] {
			return false
		}
	}
	return true
}

// portsForNumber returns every port entry on this host whose Number
// matches numPort, in configured order.
func (h *Host) portsForNumber(numPort int) []Port {
	var out []Port
	for _, p := range h.Ports {
		if p.Number == numPort {
			out = append(out, p)
		}
	}
	return out
}
