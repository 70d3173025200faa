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

package server

import (
	"encoding/json"
	"fmt"

	"github.com/latticehttp/lattice/dispatch"
	"github.com/latticehttp/lattice/errors"
)

// DefaultErrorHook is ErrorHook wired to errors.RFC9457, the Problem
// Details format this module favors for API error responses out of the
// box. problemBaseURL is passed straight through to errors.NewRFC9457.
func DefaultErrorHook(problemBaseURL string) dispatch.ErrorHook {
	return ErrorHook(errors.NewRFC9457(problemBaseURL))
}

// ErrorHook adapts an errors.Formatter into a dispatch.ErrorHook: every
// panic value recovered by the dispatcher is turned into a Go error (via
// fmt.Errorf for non-error values) and formatted the same way a handler's
// own returned error would be.
func ErrorHook(formatter errors.Formatter) dispatch.ErrorHook {
	return func(req *dispatch.Request, ctx *dispatch.Context, recovered any) *dispatch.Response {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", recovered)
		}

		formatted := formatter.Format(req.Raw, err)
		body, marshalErr := json.Marshal(formatted.Body)
		if marshalErr != nil {
			return dispatch.Text(500, "internal error")
		}

		resp := dispatch.NewResponse(formatted.Status, body)
		resp.ContentType = formatted.ContentType
		for k, vs := range formatted.Headers {
			for _, v := range vs {
				resp = resp.WithHeader(k, v)
			}
		}
		return resp
	}
}
