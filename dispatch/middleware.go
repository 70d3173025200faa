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
	"fmt"

	"github.com/latticehttp/lattice/router"
)

// HandlerFunc is the capability every route handler and middleware
// implements: given a request and its scratch context, either produce a
// Response or return nil to mean "no response, keep going".
type HandlerFunc func(*Request, *Context) *Response

// Phase tags when a Middleware runs relative to body loading and the route
// handler.
type Phase int

const (
	// BeforeContents runs before the request body is loaded.
	BeforeContents Phase = iota
	// BeforeResponse runs after the body is loaded, before the handler.
	BeforeResponse
	// AfterResponse runs after the route handler returns.
	AfterResponse
)

func (p Phase) String() string {
	switch p {
	case BeforeContents:
		return "BeforeContents"
	case BeforeResponse:
		return "BeforeResponse"
	case AfterResponse:
		return "AfterResponse"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Middleware pairs a HandlerFunc with the phase it runs in. Its identity
// (the pointer itself) is what a route's bypass list compares against, and
// what router.Route.Use/SkipGlobal store as opaque `any` values.
type Middleware struct {
	Name  string
	Phase Phase
	Fn    HandlerFunc
}

// New constructs a named Middleware for the given phase.
func New(name string, phase Phase, fn HandlerFunc) *Middleware {
	return &Middleware{Name: name, Phase: phase, Fn: fn}
}

// ErrorHook converts a recovered panic value into a Response. A nil return
// means the dispatcher falls back to its default 500 sentinel and outcome
// ExceptionThrown; a non-nil return is recorded as outcome
// UncaughtExceptionThrown instead of Executed.
type ErrorHook func(req *Request, ctx *Context, recovered any) *Response

// runPhase executes every host-wide middleware tagged with phase (skipping
// bypassed ones), then the route's own middleware tagged with phase, in
// declared order. It returns the short-circuiting Response, or nil if
// every middleware in this phase declined to respond.
//
// A middleware panic is recovered and routed through hook, via the same
// recoveryResponse path invokeHandler uses for a handler panic, unless
// throwExceptions is set, in which case the panic re-propagates instead of
// being recovered.
func runPhase(phase Phase, global []*Middleware, route *router.Route, req *Request, ctx *Context, hook ErrorHook, throwExceptions bool) (resp *Response) {
	call := func(fn HandlerFunc) (r *Response) {
		defer func() {
			if rec := recover(); rec != nil {
				if throwExceptions {
					panic(rec)
				}
				r = recoveryResponse(hook, req, ctx, rec)
			}
		}()
		return fn(req, ctx)
	}

	for _, mw := range global {
		if mw.Phase != phase {
			continue
		}
		if route != nil && route.Bypasses(mw) {
			continue
		}
		if r := call(mw.Fn); r != nil {
			return r
		}
	}

	if route == nil {
		return nil
	}
	for _, m := range route.Middleware {
		mw, ok := m.(*Middleware)
		if !ok || mw.Phase != phase {
			continue
		}
		if r := call(mw.Fn); r != nil {
			return r
		}
	}
	return nil
}
