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

// Package cors is intentionally empty: CORS is wire-visible behavior owned
// directly by the dispatcher (see dispatch/cors.go), driven by each host's
// CORSPolicy and each route's CORSEnable flag, not by pluggable middleware.
// A route can't opt into CORS after the fact the way it can opt into, say,
// compression — the preflight OPTIONS short-circuit happens during route
// lookup, before any middleware phase runs.
package cors
