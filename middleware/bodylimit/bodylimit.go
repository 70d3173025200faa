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

// Package bodylimit enforces a body size cap narrower than the
// dispatcher-wide one, for routes that need a tighter
// quota (e.g. a JSON endpoint next to a file upload endpoint).
package bodylimit

import (
	"net/http"

	"github.com/latticehttp/lattice/dispatch"
)

// New returns a BeforeContents middleware rejecting requests whose
// declared Content-Length exceeds maxBytes with 413. It runs before the
// dispatcher loads the body, so an oversized body is never read into
// memory.
func New(maxBytes int64) *dispatch.Middleware {
	return dispatch.New("bodylimit", dispatch.BeforeContents, func(req *dispatch.Request, ctx *dispatch.Context) *dispatch.Response {
		if req.Raw.ContentLength > maxBytes {
			return dispatch.Text(http.StatusRequestEntityTooLarge, "")
		}
		return nil
	})
}
