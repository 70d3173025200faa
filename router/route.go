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

import "reflect"

// Route is immutable after registration. The handler and
// middleware fields are held as opaque `any` values: this package only ever
// compares them by identity (for the bypass list) or hands them back to the
// caller unchanged — it never calls them. The dispatch package, which knows
// the concrete handler/middleware signatures, is the only consumer that
// type-asserts them back.
type Route struct {
	Methods MethodMask
	Matcher Matcher
	Name    string

	Handler any

	// Middleware is this route's own ordered middleware (runs after the
	// host-wide chain in every phase).
	Middleware []any

	// Bypass lists host-wide middleware identities to skip when running the
	// host-wide chain for this route (the route's bypass list).
	Bypass []any

	LogOutput  bool
	CORSEnable bool
}

// NewRoute constructs a template-mode Route from a path pattern. A "<" or
// ">" outside a balanced "<name>" hole fails with ErrUnbalancedHole; to
// register a regex-mode route use NewRegexRoute instead — the two modes are
// mutually exclusive and fixed at construction.
func NewRoute(methods MethodMask, path string, caseSensitive bool, handler any) (*Route, error) {
	if path == "" || path[0] != '/' {
		return nil, ErrPathMustBeAbsolute
	}
	if methods == 0 {
		return nil, ErrEmptyMethodMask
	}
	matcher, err := CompileTemplate(path, caseSensitive)
	if err != nil {
		return nil, err
	}
	return &Route{Methods: methods, Matcher: matcher, Handler: handler}, nil
}

// NewRegexRoute constructs a regex-mode Route. Regex routes are never
// collision-checked and never populate path parameters. The pattern must
// begin with "/" or, when anchored, "^/".
func NewRegexRoute(methods MethodMask, pattern string, caseSensitive bool, handler any) (*Route, error) {
	if pattern == "" || (pattern[0] != '/' && !(pattern[0] == '^' && len(pattern) > 1 && pattern[1] == '/')) {
		return nil, ErrPathMustBeAbsolute
	}
	if methods == 0 {
		return nil, ErrEmptyMethodMask
	}
	matcher, err := CompileRegex(pattern, caseSensitive)
	if err != nil {
		return nil, err
	}
	return &Route{Methods: methods, Matcher: matcher, Handler: handler}, nil
}

// Use appends route-local middleware, run in declared order after the
// host-wide chain.
func (r *Route) Use(mw ...any) *Route {
	r.Middleware = append(r.Middleware, mw...)
	return r
}

// SkipGlobal adds host-wide middleware identities to this route's bypass
// list.
func (r *Route) SkipGlobal(mw ...any) *Route {
	r.Bypass = append(r.Bypass, mw...)
	return r
}

// Named sets the route's reverse-lookup name.
func (r *Route) Named(name string) *Route {
	r.Name = name
	return r
}

// Bypasses reports whether mw is in this route's bypass list — exported so
// the dispatch package's middleware pipeline can skip host-wide middleware
// per route without router needing to know dispatch's concrete types.
func (r *Route) Bypasses(mw any) bool { return r.bypasses(mw) }

// bypasses reports whether mw appears in the route's bypass list, compared
// by identity. Middleware values are ordinarily
// func types, which are not comparable with "==", so identity is compared
// via the function pointer; non-func values fall back to direct equality.
func (r *Route) bypasses(mw any) bool {
	for _, b := range r.Bypass {
		if sameIdentity(b, mw) {
			return true
		}
	}
	return false
}

// sameIdentity compares two opaque middleware/handler references by
// identity: function values compare by code pointer, everything else by
// ordinary equality.
func sameIdentity(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.Func || bv.Kind() == reflect.Func {
		if av.Kind() != reflect.Func || bv.Kind() != reflect.Func {
			return false
		}
		return av.Pointer() == bv.Pointer()
	}
	return a == b
}
