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
	"net/http"
)

// Kind tags a Response as either a normal status/body response or one of
// the sentinel variants below: callers pattern-match on Kind rather than
// relying on sentinel-field values, since a Response is a single
// polymorphic type regardless of variant.
type Kind int

const (
	// KindNormal carries a status, headers, and body through the ordinary
	// serialization path.
	KindNormal Kind = iota
	// KindEmpty closes the stream with no bytes written.
	KindEmpty
	// KindStreamClose means the handler already wrote the stream directly
	// (an SSE or WebSocket session); no serialization step runs.
	KindStreamClose
	// KindError means a handler or middleware panicked and no ErrorHook
	// handled it; the dispatcher serializes the default 500 sentinel and
	// records outcome ExceptionThrown.
	KindError
	// KindRecovered means an ErrorHook handled a recovered panic with its
	// own response. It serializes like KindNormal, but the dispatcher
	// records outcome UncaughtExceptionThrown instead of Executed.
	KindRecovered
	// KindClose closes the TCP connection silently.
	KindClose
	// KindRedirect301 is used by the trailing-slash-append step.
	KindRedirect301
)

// Response is the tagged union every handler, middleware, and pipeline
// phase produces (or declines to produce — "nothing" means the pipeline
// continues). See Kind for the sentinel taxonomy.
type Response struct {
	Kind Kind

	// Status and Reason back a normal response. Reason, when non-empty,
	// overrides the canonical reason phrase for Status; it
	// must be at most 8192 bytes.
	Status int
	Reason string

	Header http.Header
	Body   []byte

	// ContentType, when non-empty, overrides any Content-Type already set
	// on Header.
	ContentType string
	// Chunked suppresses the Content-Length header during serialization.
	Chunked bool

	// Location backs KindRedirect301.
	Location string

	// BytesSent backs KindStreamClose (the session's bytes-sent counter).
	BytesSent int64

	// Err backs KindError and KindRecovered: the recovered panic, converted
	// to an error, or nil for a response with no panic behind it.
	Err error
}

// NewResponse constructs a normal response.
func NewResponse(status int, body []byte) *Response {
	return &Response{Kind: KindNormal, Status: status, Header: make(http.Header), Body: body}
}

// Text constructs a normal text/plain response.
func Text(status int, body string) *Response {
	r := NewResponse(status, []byte(body))
	r.ContentType = "text/plain; charset=utf-8"
	return r
}

// Empty constructs the KindEmpty sentinel.
func Empty() *Response { return &Response{Kind: KindEmpty} }

// StreamClosed constructs the KindStreamClose sentinel, carrying the
// session's total bytes-sent counter.
func StreamClosed(bytesSent int64) *Response {
	return &Response{Kind: KindStreamClose, BytesSent: bytesSent}
}

// ErrorResponse constructs the KindError sentinel.
func ErrorResponse(err error) *Response { return &Response{Kind: KindError, Err: err} }

// CloseSilently constructs the KindClose sentinel.
func CloseSilently() *Response { return &Response{Kind: KindClose} }

// Redirect301 constructs the KindRedirect301 sentinel (trailing-slash step).
func Redirect301(location string) *Response {
	return &Response{Kind: KindRedirect301, Location: location}
}

// WithHeader sets a response header and returns the receiver for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// reasonPhrase returns r.Reason if set, else the canonical phrase for
// r.Status. Status must be three-digit and Reason at most 8192 bytes;
// callers validate before constructing in contexts where that matters.
func (r *Response) reasonPhrase() string {
	if r.Reason != "" {
		return r.Reason
	}
	return http.StatusText(r.Status)
}

// StatusInfo is a validated (code, reason) pair:
// 100 <= code <= 999 and len(reason) <= 8192.
type StatusInfo struct {
	Code   int
	Reason string
}

// NewStatusInfo validates and constructs a StatusInfo.
func NewStatusInfo(code int, reason string) (StatusInfo, error) {
	if code < 100 || code > 999 {
		return StatusInfo{}, fmt.Errorf("%w: %d", ErrInvalidStatusCode, code)
	}
	if len(reason) > 8192 {
		return StatusInfo{}, ErrReasonTooLong
	}
	return StatusInfo{Code: code, Reason: reason}, nil
}
