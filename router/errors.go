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

import "errors"

// Static errors for pattern compilation, route registration and lookup.
// Wrap with fmt.Errorf and %w when the caller needs the offending path or pattern.
var (
	// ErrUnbalancedHole is returned when a template pattern has a stray '<' or '>'.
	ErrUnbalancedHole = errors.New("router: unbalanced parameter hole in path template")

	// ErrPathMustBeAbsolute is returned when a route is registered with a path
	// that does not start with "/".
	ErrPathMustBeAbsolute = errors.New("router: route path must start with '/'")

	// ErrRouteCollision is returned at registration time when a template-mode
	// route would accept a concrete request already accepted by an existing
	// template-mode route under an overlapping method mask.
	ErrRouteCollision = errors.New("router: route collides with an existing route")

	// ErrEmptyMethodMask is returned when a route is registered with no methods set.
	ErrEmptyMethodMask = errors.New("router: route method mask is empty")

	// ErrRouteNotFound reports that no route carries a requested name.
	// Table.FindByName does not return it: it signals a miss with nil.
	ErrRouteNotFound = errors.New("router: named route not found")
)
