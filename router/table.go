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

package router

import (
	"fmt"
	"net/http"
	"sync"
)

// LookupOutcome tags the result of Table.Lookup.
type LookupOutcome int

const (
	// NotMatched means no registered route's pattern matched the path.
	NotMatched LookupOutcome = iota
	// PathMatched means at least one route matched the path but none
	// accepted the request's method.
	PathMatched
	// FullMatched means a route matched both path and method.
	FullMatched
	// OptionsMatched means the request method is OPTIONS, a route's
	// pattern matched the path, and its mask is not MethodAny — matching
	// halts here.
	OptionsMatched
)

// LookupResult is everything Table.Lookup reports back to the dispatcher.
type LookupResult struct {
	Outcome LookupOutcome
	Route   *Route
	Params  map[string]string
	// Allowed collects the method names of every route that matched the
	// path but not the method — used to build the 405 Allow header.
	Allowed []string
}

// Table is one host's ordered set of routes plus a name index. It is
// read-mostly: registration is expected at startup, but Register takes an
// exclusive lock so runtime registration while serving is still safe.
type Table struct {
	mu            sync.RWMutex
	routes        []*Route
	byName        map[string]*Route
	caseSensitive bool
	treatHeadGet  bool
}

// NewTable constructs an empty route table. caseSensitive governs literal
// segment and regex comparison; treatHeadAsGet implements the
// HEAD/GET fallback.
func NewTable(caseSensitive, treatHeadAsGet bool) *Table {
	return &Table{
		byName:        make(map[string]*Route),
		caseSensitive: caseSensitive,
		treatHeadGet:  treatHeadAsGet,
	}
}

// Register adds route to the table. Template-mode routes are checked for
// collisions against every existing template-mode route: if the method
// masks overlap (ANY overlaps anything) and the existing route's
// pattern would accept the new route's literal concrete path, registration
// fails with ErrRouteCollision. Regex-mode routes are never collision
// checked.
//
// The collision check applies uniformly regardless of method mask: an ANY
// route registered after a typed route on the same path collides too,
// rather than being exempted as a special case.
func (t *Table) Register(route *Route) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tm, ok := route.Matcher.(*TemplateMatcher); ok {
		for _, existing := range t.routes {
			existingTM, ok := existing.Matcher.(*TemplateMatcher)
			if !ok {
				continue
			}
			if !existing.Methods.Overlaps(route.Methods) {
				continue
			}
			if existingTM.collidesWith(tm) {
				return fmt.Errorf("%w: %q overlaps existing route %q", ErrRouteCollision, route.Matcher.Pattern(), existing.Matcher.Pattern())
			}
		}
	}

	t.routes = append(t.routes, route)
	if route.Name != "" {
		if _, taken := t.byName[route.Name]; !taken {
			t.byName[route.Name] = route
		}
	}
	return nil
}

// Lookup finds the first route whose pattern matches path, in registration
// order (ties break strictly by registration order), then applies
// the method-mask rules.
func (t *Table) Lookup(method, path string) LookupResult {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var allowed []string
	pathMatchedAny := false

	for _, route := range t.routes {
		ok, params := route.Matcher.Match(path)
		if !ok {
			continue
		}
		pathMatchedAny = true

		switch {
		case route.Methods.Is(MethodAny):
			return LookupResult{Outcome: FullMatched, Route: route, Params: params}

		case method == http.MethodOptions:
			return LookupResult{Outcome: OptionsMatched, Route: route, Params: params}

		case method == http.MethodHead && route.Methods.Is(MethodGet) && t.treatHeadGet:
			return LookupResult{Outcome: FullMatched, Route: route, Params: params}

		case route.Methods.Accepts(method):
			return LookupResult{Outcome: FullMatched, Route: route, Params: params}

		default:
			allowed = append(allowed, allowedMethodNames(route.Methods)...)
		}
	}

	if !pathMatchedAny {
		return LookupResult{Outcome: NotMatched}
	}
	return LookupResult{Outcome: PathMatched, Allowed: dedupe(allowed)}
}

// FindByName returns the first route registered under name, or nil.
func (t *Table) FindByName(name string) *Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byName[name]
}

// Routes returns a snapshot slice of every registered route, in
// registration order.
func (t *Table) Routes() []*Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}

var allMethodOrder = []struct {
	name string
	bit  MethodMask
}{
	{"GET", MethodGet}, {"POST", MethodPost}, {"PUT", MethodPut},
	{"PATCH", MethodPatch}, {"DELETE", MethodDelete}, {"COPY", MethodCopy},
	{"HEAD", MethodHead}, {"OPTIONS", MethodOptions}, {"LINK", MethodLink},
	{"UNLINK", MethodUnlink}, {"VIEW", MethodView}, {"TRACE", MethodTrace},
}

func allowedMethodNames(mask MethodMask) []string {
	if mask.Is(MethodAny) {
		names := make([]string, len(allMethodOrder))
		for i, m := range allMethodOrder {
			names[i] = m.name
		}
		return names
	}
	var names []string
	for _, m := range allMethodOrder {
		if mask.Is(m.bit) {
			names = append(names, m.name)
		}
	}
	return names
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
