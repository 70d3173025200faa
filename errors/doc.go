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

// Package errors formats a recovered panic or a handler-returned error into
// the body of an HTTP error response, independent of net/http itself. A
// Formatter is what server.ErrorHook drives: it turns whatever the
// dispatcher recovered into a Response the dispatcher can serialize.
//
// Two formats are provided. Simple produces a flat JSON object; RFC9457
// produces RFC 9457 Problem Details (application/problem+json), the
// format this module's own server package wires in by default. A domain
// error can implement ErrorType, ErrorDetails, or ErrorCode to steer the
// status code, attach structured details, or carry a machine-readable
// code through either formatter.
package errors
