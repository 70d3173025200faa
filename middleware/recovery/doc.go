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

// Package recovery is intentionally empty: every middleware and handler
// call already runs under a recover() in runPhase and invokeHandler
// (see dispatch/middleware.go, dispatch/dispatcher.go), routed through the
// dispatcher's configurable ErrorHook. A second recovery layer here would
// never see a panic — it would already have been caught one frame in.
package recovery
