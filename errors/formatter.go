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

package errors

import (
	"net/http"
)

// Formatter turns an error into the components of an HTTP error response.
type Formatter interface {
	// Format converts err into a Response. req is the request that
	// triggered it; RFC9457 uses its path as the problem's instance URI.
	Format(req *http.Request, err error) Response
}

// Response is what a Formatter produces: everything server.ErrorHook
// needs to build the dispatcher response.
type Response struct {
	Status      int
	ContentType string
	// Body is marshaled to JSON by the caller.
	Body any
	// Headers carries additional response headers, if any.
	Headers http.Header
}

// ErrorType lets an error declare its own HTTP status code.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails lets an error expose structured, formatter-specific detail
// (e.g. field-level validation failures).
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode lets an error expose a machine-readable code; RFC9457 also
// uses it to build the problem's type URI.
type ErrorCode interface {
	error
	Code() string
}

// NewRFC9457 constructs an RFC9457 formatter. baseURL is prepended to a
// coded error's Code to build the problem's type URI.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// NewSimple constructs a Simple formatter.
func NewSimple() *Simple {
	return &Simple{}
}

// WithStatus wraps err with an explicit HTTP status code, so a Formatter's
// default status logic (via the ErrorType interface) picks it up. A nil
// err formats as the status's canonical reason phrase.
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }
