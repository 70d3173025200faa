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

package router

import "strings"

// MethodMask is a bitset over the HTTP methods a route accepts.
type MethodMask uint16

// Method bits. ANY is a distinguished bit meaning "every method", not the
// union of the others — MethodMask.Accepts special-cases it.
const (
	MethodGet MethodMask = 1 << iota
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
	MethodCopy
	MethodHead
	MethodOptions
	MethodLink
	MethodUnlink
	MethodView
	MethodTrace
	MethodAny
)

var methodNames = map[string]MethodMask{
	"GET":     MethodGet,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"PATCH":   MethodPatch,
	"DELETE":  MethodDelete,
	"COPY":    MethodCopy,
	"HEAD":    MethodHead,
	"OPTIONS": MethodOptions,
	"LINK":    MethodLink,
	"UNLINK":  MethodUnlink,
	"VIEW":    MethodView,
	"TRACE":   MethodTrace,
	"ANY":     MethodAny,
}

// ParseMethod maps an HTTP method name to its mask bit. Unknown methods map
// to 0 (matches nothing except under MethodAny).
func ParseMethod(method string) MethodMask {
	return methodNames[strings.ToUpper(method)]
}

// Is reports whether bit is set in the mask.
func (m MethodMask) Is(bit MethodMask) bool {
	return m&bit != 0
}

// Accepts reports whether the mask accepts the given concrete HTTP method
// name: the ANY bit accepts everything; otherwise the method's own
// bit must be set.
func (m MethodMask) Accepts(method string) bool {
	if m.Is(MethodAny) {
		return true
	}
	return m.Is(ParseMethod(method))
}

// Overlaps reports whether two masks could both match some concrete
// request's method — used by route collision detection. Either mask
// being ANY overlaps with anything non-zero.
func (m MethodMask) Overlaps(other MethodMask) bool {
	if m.Is(MethodAny) || other.Is(MethodAny) {
		return true
	}
	return m&other != 0
}
