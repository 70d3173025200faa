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

import "github.com/latticehttp/lattice/logging"

// Option is a functional option for configuring a Dispatcher.
type Option func(*Dispatcher)

// WithGlobalMiddleware registers host-wide middleware, run before any
// route-local middleware in every phase it's tagged for.
func WithGlobalMiddleware(mw ...*Middleware) Option {
	return func(d *Dispatcher) { d.global = append(d.global, mw...) }
}

// WithErrorHook configures the handler/middleware error hook.
func WithErrorHook(hook ErrorHook) Option {
	return func(d *Dispatcher) { d.errorHook = hook }
}

// WithObserver configures the connection-open/connection-close subscriber.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// WithMaxContentLength sets the maximum allowed request body size. Zero
// means unlimited.
func WithMaxContentLength(n int64) Option {
	return func(d *Dispatcher) { d.maxContentLength = n }
}

// WithRejectBodyOnSemanticFreeMethods rejects a request body on methods
// that carry no request-body semantics (GET, HEAD, OPTIONS, TRACE).
func WithRejectBodyOnSemanticFreeMethods(enabled bool) Option {
	return func(d *Dispatcher) { d.rejectBodyOnSemanticFreeMethods = enabled }
}

// WithTrustForwardedFor enables the X-Forwarded-For rewrite of RemoteAddr.
func WithTrustForwardedFor(enabled bool) Option {
	return func(d *Dispatcher) { d.trustForwardedFor = enabled }
}

// WithTrustForwardedHost enables the X-Forwarded-Host override during
// host resolution. This is necessarily a dispatcher-wide flag rather than
// a per-host one: which listening host to select is exactly the question
// this flag changes the input to.
func WithTrustForwardedHost(enabled bool) Option {
	return func(d *Dispatcher) { d.trustForwardedHost = enabled }
}

// WithRequestIDHeader enables the optional X-Request-Id response header.
func WithRequestIDHeader(enabled bool) Option {
	return func(d *Dispatcher) { d.emitRequestIDHeader = enabled }
}

// WithPoweredBy sets the optional X-Powered-By response header value;
// an empty string disables it.
func WithPoweredBy(value string) Option {
	return func(d *Dispatcher) { d.poweredBy = value }
}

// WithNotFound overrides the default 404 responder.
func WithNotFound(h HandlerFunc) Option {
	return func(d *Dispatcher) { d.notFound = h }
}

// WithMethodNotAllowed overrides the default 405 responder; allowed carries
// the method names to report in the Allow header.
func WithMethodNotAllowed(h func(allowed []string) *Response) Option {
	return func(d *Dispatcher) { d.methodNotAllowed = h }
}

// WithLogger sets the structured logger used for dispatcher-internal
// diagnostics (recovered panics) and for the per-request logger handed to
// handlers and middleware through Context.Logger. Each request derives its
// own child logger from l via logging.NewContextLogger, so a request
// carrying an OpenTelemetry span in its context gets trace_id/span_id
// fields on every line it logs.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithThrowExceptions makes a recovered handler or middleware panic bubble
// past the dispatcher instead of being converted into a response: the
// ErrorHook is never consulted, the panic re-propagates to net/http's own
// per-connection recovery, and the dispatcher records no outcome at all
// for that connection.
func WithThrowExceptions(enabled bool) Option {
	return func(d *Dispatcher) { d.throwExceptions = enabled }
}
