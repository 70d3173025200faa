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
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/latticehttp/lattice/host"
	"github.com/latticehttp/lattice/logging"
	"github.com/latticehttp/lattice/router"
)

// Dispatcher is the per-connection orchestrator: it accepts a parsed
// request, resolves a listening host, looks up a route, runs the
// three-phase middleware pipeline around the handler, and serializes
// the response. It implements http.Handler directly, exactly like the
// teacher's router.Router.ServeHTTP — net/http's own server and acceptor
// handle parsing and accepting connections; the Dispatcher only ever sees
// an already-parsed *http.Request.
type Dispatcher struct {
	Resolver *host.Resolver
	// Port is the numeric listening port this dispatcher serves; it's
	// threaded into host resolution since one Dispatcher normally
	// backs one net.Listener.
	Port int

	global []*Middleware

	errorHook ErrorHook
	observer  Observer

	maxContentLength                int64
	rejectBodyOnSemanticFreeMethods bool
	trustForwardedFor               bool
	trustForwardedHost              bool
	emitRequestIDHeader             bool
	poweredBy                       string
	// throwExceptions, when set, makes a recovered handler or middleware
	// panic bubble past the dispatcher instead of becoming a response.
	throwExceptions bool

	notFound         HandlerFunc
	methodNotAllowed func(allowed []string) *Response

	logger *logging.Logger
}

// New constructs a Dispatcher bound to resolver on the given numeric port.
func New(resolver *host.Resolver, port int, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		Resolver: resolver,
		Port:     port,
		observer: NoopObserver{},
		logger:   logging.MustNew(logging.WithOutput(io.Discard)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var semanticFreeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodOptions: true,
	http.MethodHead:    true,
	http.MethodTrace:   true,
}

// ServeHTTP resolves the host, looks up the route, runs the middleware
// pipeline around the handler, and writes the final response.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := newRequest(r)

	// Step 1: set the current-thread locale to the host-configured culture.
	// Go's goroutine model has no per-thread locale to set — there is no
	// stdlib or ecosystem equivalent a goroutine-based dispatcher could
	// honor, so this step has no action here; a future per-request culture
	// hook would live on Context instead.

	d.observer.OnConnectionOpen(req)
	cw := &countingWriter{ResponseWriter: w}

	result := d.dispatch(cw, req)
	result.BytesOut = cw.size
	result.ElapsedMillis = float64(time.Since(start).Microseconds()) / 1000.0
	d.observer.OnConnectionClose(result)
}

func (d *Dispatcher) dispatch(w *countingWriter, req *Request) Result {
	// Step 2: resolve listening host.
	effectiveHost := host.EffectiveHostname(d.trustForwardedHost, req.Host, req.Header.Get("X-Forwarded-Host"))
	h, err := d.Resolver.Resolve(effectiveHost, d.Port)
	if err != nil {
		resp := Text(http.StatusBadRequest, "")
		d.serialize(w, req, resp)
		return Result{Outcome: DnsUnknownHost, Response: resp, Request: req, Err: fmt.Errorf("%w: %w", ErrDnsUnknownHost, err), BytesIn: req.Raw.ContentLength}
	}
	req.Host = effectiveHost

	// Step 3: rewrite remote address from X-Forwarded-For.
	if d.trustForwardedFor {
		if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
			addr := firstForwardedFor(fwd)
			if addr == "" {
				resp := Text(http.StatusBadRequest, "")
				d.serialize(w, req, resp)
				return Result{Outcome: MalformedRequest, Response: resp, Request: req, Err: ErrMalformedForwardedIP}
			}
			req.RemoteAddr = addr
		}
	}

	// Step 4: parse cookies.
	cookies, err := parseCookies(req.Header.Get("Cookie"))
	if err != nil {
		resp := Text(http.StatusBadRequest, "")
		d.serialize(w, req, resp)
		return Result{Outcome: MalformedRequest, Response: resp, Request: req, Err: err}
	}
	req.Cookies = cookies

	// Step 5: re-decode headers for transports that deliver them in
	// latin-1. net/http's header parser is already UTF-8-safe for this
	// module's scope, so no header re-decoding hook is wired by default.

	// Step 6: enforce max content length.
	if d.maxContentLength > 0 && req.Raw.ContentLength > d.maxContentLength {
		resp := Text(http.StatusRequestEntityTooLarge, "")
		d.serialize(w, req, resp)
		return Result{Outcome: ContentTooLarge, Response: resp, Request: req, Err: ErrContentTooLarge, BytesIn: req.Raw.ContentLength}
	}

	// Step 7: reject bodies on semantic-free methods.
	if d.rejectBodyOnSemanticFreeMethods && semanticFreeMethods[req.Method] && req.Raw.ContentLength > 0 {
		resp := Text(http.StatusBadRequest, "")
		d.serialize(w, req, resp)
		return Result{Outcome: MalformedRequest, Response: resp, Request: req, Err: ErrBodyOnSemanticFreeMethod}
	}

	// Step 8: route lookup.
	lookup := h.Table.Lookup(req.Method, req.Path)

	switch lookup.Outcome {
	case router.OptionsMatched:
		// Step 9: synthesize a 200 + CORS-only response.
		resp := NewResponse(http.StatusOK, nil)
		applyCORS(h, lookup.Route.CORSEnable, req.Header, resp.Header)
		d.serialize(w, req, resp)
		return Result{Outcome: Executed, Response: resp, Request: req}

	case router.PathMatched:
		// Step 10: method not allowed.
		resp := d.methodNotAllowedResponse(lookup.Allowed)
		d.serialize(w, req, resp)
		return Result{Outcome: ContentServedOnIllegalMethod, Response: resp, Request: req}

	case router.NotMatched:
		// Step 11: not found.
		resp := d.notFoundResponse(req)
		d.serialize(w, req, resp)
		return Result{Outcome: NoResponse, Response: resp, Request: req}
	}

	route := lookup.Route
	req.mergeParams(lookup.Params)

	// Step 12: trailing-slash redirect.
	if h.ForceTrailingSlash && route.Matcher.IsTemplate() && len(req.Path) > 0 && req.Path[len(req.Path)-1] != '/' {
		loc := req.Path + "/"
		if req.Raw.URL.RawQuery != "" {
			loc += "?" + req.Raw.URL.RawQuery
		}
		resp := Redirect301(loc)
		d.serialize(w, req, resp)
		return Result{Outcome: Executed, Response: resp, Request: req}
	}

	ctx := NewContext(h, route, logging.NewContextLogger(req.Raw.Context(), d.logger).Logger())

	// Step 13: phase 1 (BeforeContents).
	if resp := runPhase(BeforeContents, d.global, route, req, ctx, d.errorHook, d.throwExceptions); resp != nil {
		return d.finish(w, req, resp)
	}

	// Step 14: load the request body.
	if req.Raw.Body != nil {
		body, readErr := io.ReadAll(req.Raw.Body)
		if readErr == nil {
			req.Body = body
		}
	}

	// Step 15: phase 2 (BeforeResponse), then the handler. A short-circuit
	// here ends the pipeline: neither the handler nor phase 3 runs.
	if sc := runPhase(BeforeResponse, d.global, route, req, ctx, d.errorHook, d.throwExceptions); sc != nil {
		return d.finish(w, req, sc)
	}
	resp := d.invokeHandler(route, req, ctx)

	// Step 16: phase 3 (AfterResponse). The response so far is visible to
	// these middleware via ctx.Response() so they can mutate it in place
	// (logging, compression, security headers); a non-nil return instead
	// REPLACES the response outright.
	ctx.response = resp
	if sc := runPhase(AfterResponse, d.global, route, req, ctx, d.errorHook, d.throwExceptions); sc != nil {
		resp = sc
	}

	return d.finish(w, req, resp)
}

func (d *Dispatcher) invokeHandler(route *router.Route, req *Request, ctx *Context) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			if d.throwExceptions {
				panic(rec)
			}
			resp = recoveryResponse(d.errorHook, req, ctx, rec)
		}
	}()
	var handler HandlerFunc
	switch h := route.Handler.(type) {
	case HandlerFunc:
		handler = h
	case func(*Request, *Context) *Response:
		handler = h
	default:
		return ErrorResponse(nil)
	}
	r := handler(req, ctx)
	if r == nil {
		return Empty()
	}
	return r
}

// panicError converts a recovered panic value into an error: the value
// itself if it already is one, otherwise its %v formatting.
func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", rec)
}

// recoveryResponse converts a recovered panic into a Response via hook, if
// one is configured. A hook response is tagged KindRecovered so finish
// records outcome UncaughtExceptionThrown instead of Executed; a nil hook
// (or no hook at all) falls back to the KindError 500 sentinel and outcome
// ExceptionThrown. Either way the recovered value, converted to an error,
// rides along on Response.Err.
func recoveryResponse(hook ErrorHook, req *Request, ctx *Context, rec any) *Response {
	err := panicError(rec)
	if hook != nil {
		if resp := hook(req, ctx, rec); resp != nil {
			resp.Kind = KindRecovered
			resp.Err = err
			return resp
		}
	}
	return ErrorResponse(err)
}

// finish maps a pipeline result to its outcome and serializes it, handling
// each of the response sentinel kinds.
func (d *Dispatcher) finish(w *countingWriter, req *Request, resp *Response) Result {
	if resp == nil {
		resp = Empty()
	}
	switch resp.Kind {
	case KindStreamClose:
		return Result{Outcome: StreamClosed, Response: resp, Request: req, BytesOut: resp.BytesSent}
	case KindRecovered:
		d.logger.LogError(resp.Err, "panic recovered by error hook", "method", req.Method, "path", req.Path, "outcome", UncaughtExceptionThrown.String())
		d.serialize(w, req, resp)
		return Result{Outcome: UncaughtExceptionThrown, Response: resp, Request: req, Err: resp.Err}
	case KindError:
		d.logger.LogError(resp.Err, "panic recovered with no error hook response", "method", req.Method, "path", req.Path, "outcome", ExceptionThrown.String())
		d.serialize(w, req, Text(http.StatusInternalServerError, ""))
		return Result{Outcome: ExceptionThrown, Response: resp, Request: req, Err: resp.Err}
	case KindClose:
		return Result{Outcome: ClosedStream, Response: resp, Request: req}
	case KindEmpty:
		return Result{Outcome: Executed, Response: resp, Request: req}
	default:
		d.serialize(w, req, resp)
		return Result{Outcome: Executed, Response: resp, Request: req}
	}
}

// serialize writes resp's status, headers, and body to w.
func (d *Dispatcher) serialize(w *countingWriter, req *Request, resp *Response) {
	if resp == nil {
		return
	}
	header := w.Header()
	for k, vs := range resp.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	if resp.ContentType != "" {
		header.Set("Content-Type", resp.ContentType)
	}
	if d.emitRequestIDHeader {
		header.Set("X-Request-Id", req.ID)
	}
	if d.poweredBy != "" {
		header.Set("X-Powered-By", d.poweredBy)
	}

	switch resp.Kind {
	case KindRedirect301:
		header.Set("Location", resp.Location)
		w.WriteHeader(http.StatusMovedPermanently)
		return
	case KindEmpty:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !resp.Chunked {
		header.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if req.Method == http.MethodHead {
		return
	}
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

func (d *Dispatcher) notFoundResponse(req *Request) *Response {
	if d.notFound != nil {
		if resp := d.notFound(req, nil); resp != nil {
			return resp
		}
	}
	return Text(http.StatusNotFound, "")
}

func (d *Dispatcher) methodNotAllowedResponse(allowed []string) *Response {
	if d.methodNotAllowed != nil {
		if resp := d.methodNotAllowed(allowed); resp != nil {
			return resp
		}
	}
	resp := Text(http.StatusMethodNotAllowed, "")
	if len(allowed) > 0 {
		joined := allowed[0]
		for _, m := range allowed[1:] {
			joined += ", " + m
		}
		resp.WithHeader("Allow", joined)
	}
	return resp
}

// countingWriter wraps http.ResponseWriter to track outgoing byte count,
// recording whether the header was written and guarding against a
// duplicate WriteHeader call.
type countingWriter struct {
	http.ResponseWriter
	size    int64
	written bool
}

func (cw *countingWriter) WriteHeader(code int) {
	if !cw.written {
		cw.written = true
		cw.ResponseWriter.WriteHeader(code)
	}
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	if !cw.written {
		cw.WriteHeader(http.StatusOK)
	}
	n, err := cw.ResponseWriter.Write(b)
	cw.size += int64(n)
	return n, err
}
