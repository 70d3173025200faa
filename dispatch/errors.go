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

import "errors"

// Sentinel errors for the dispatcher's user-visible failure modes.
var (
	ErrMalformedCookie          = errors.New("dispatch: malformed Cookie header")
	ErrMalformedForwardedIP     = errors.New("dispatch: malformed X-Forwarded-For address")
	ErrContentTooLarge          = errors.New("dispatch: request body exceeds configured limit")
	ErrBodyOnSemanticFreeMethod = errors.New("dispatch: body present on a semantic-free method")
	ErrDnsUnknownHost           = errors.New("dispatch: no listening host matches the request")
	ErrInvalidStatusCode        = errors.New("dispatch: status code must be three digits")
	ErrReasonTooLong            = errors.New("dispatch: reason phrase exceeds 8192 bytes")
)
