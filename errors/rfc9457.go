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
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RFC9457 formats an error as an RFC 9457 Problem Details document
// (application/problem+json). It's the default server.DefaultErrorHook
// formatter for this module.
type RFC9457 struct {
	// BaseURL is prepended to an ErrorCode error's Code to build the
	// problem's type URI.
	BaseURL string

	// TypeResolver overrides the default type URI logic. If nil, Format
	// falls back to the ErrorCode interface, then "about:blank".
	TypeResolver func(err error) string
	// StatusResolver overrides the default status logic. If nil, Format
	// falls back to the ErrorType interface, then 500.
	StatusResolver func(err error) int
	// ErrorIDGenerator overrides the default error_id generator.
	ErrorIDGenerator func() string
	// DisableErrorID suppresses the error_id extension entirely.
	DisableErrorID bool
}

// ProblemDetail is an RFC 9457 problem detail, with arbitrary extension
// members merged into the top-level JSON object.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges Extensions into the problem's top-level fields,
// protecting the reserved RFC 9457 member names from being overridden.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	for k, v := range p.Extensions {
		if k != "type" && k != "title" && k != "status" && k != "detail" && k != "instance" {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// Format implements Formatter. The request's path becomes the problem's
// instance URI; an ErrorDetails error's details and an ErrorCode error's
// code are carried forward as extensions.
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := f.determineStatus(err)

	p := ProblemDetail{
		Type:       f.determineType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Instance:   req.URL.Path,
		Extensions: make(map[string]any),
	}

	if !f.DisableErrorID {
		gen := f.ErrorIDGenerator
		if gen == nil {
			gen = generateErrorID
		}
		p.Extensions["error_id"] = gen()
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		p.Extensions["errors"] = detailed.Details()
	}
	var coded ErrorCode
	if errors.As(err, &coded) {
		p.Extensions["code"] = coded.Code()
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

func (f *RFC9457) determineStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func (f *RFC9457) determineType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}
	var coded ErrorCode
	if errors.As(err, &coded) {
		code := coded.Code()
		if f.BaseURL != "" {
			return f.BaseURL + "/" + code
		}
		return code
	}
	return "about:blank"
}

// generateErrorID produces a random identifier for error_id, falling back
// to a timestamp if the system's random source is unavailable.
func generateErrorID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("err-%d", time.Now().UnixNano())
	}
	return "err-" + hex.EncodeToString(b)
}
