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

// Package streaming implements the long-lived response modes: the
// streaming registry that tracks live sessions, Server-Sent Events
// sessions, and WebSocket sessions.
package streaming

import "sync"

// Session is the common surface the registry needs: an identity, a
// liveness check, and a way to force-close. SSESession and WSSession both
// implement it. The method is named Terminate rather than Close because
// both session types expose their own richer public Close that returns
// session-specific results (a stream-closed response for SSE, nothing for
// WebSocket) — Terminate is the generic, registry-facing path they both
// route through.
type Session interface {
	Identifier() string
	Active() bool
	Terminate() error
}

// Registry is a shared mutable map from identifier to session plus a flat
// list of every tracked session. All operations, reads included, are
// serialized under a single Mutex.
type Registry struct {
	mu     sync.Mutex
	byID   map[string]Session
	all    []Session

	// OnRegister and OnUnregister, when set, fire after the corresponding
	// operation completes (outside the lock).
	OnRegister   func(Session)
	OnUnregister func(Session)
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Session)}
}

// Register inserts s. If s.Identifier() is non-empty and a session is
// already registered under that identifier, the incumbent is terminated
// before s is inserted. Sessions with an
// empty identifier are tracked in the list but not indexed.
func (r *Registry) Register(s Session) {
	var incumbent Session

	r.mu.Lock()
	id := s.Identifier()
	if id != "" {
		if existing, ok := r.byID[id]; ok {
			incumbent = existing
			r.removeFromAllLocked(existing)
		}
		r.byID[id] = s
	}
	r.all = append(r.all, s)
	r.mu.Unlock()

	// Terminate the incumbent outside the lock: Terminate calls back into
	// Unregister, which takes this same lock.
	if incumbent != nil {
		_ = incumbent.Terminate()
	}
	if r.OnRegister != nil {
		r.OnRegister(s)
	}
}

// Unregister removes s from the list and, if present, its identifier
// index. It fires OnUnregister only if s was actually present.
func (r *Registry) Unregister(s Session) {
	r.mu.Lock()
	present := r.removeFromAllLocked(s)
	if id := s.Identifier(); id != "" {
		if cur, ok := r.byID[id]; ok && cur == s {
			delete(r.byID, id)
		}
	}
	r.mu.Unlock()

	if present && r.OnUnregister != nil {
		r.OnUnregister(s)
	}
}

// removeFromAllLocked removes s from r.all, reporting whether it was
// present. Callers must hold r.mu.
func (r *Registry) removeFromAllLocked(s Session) bool {
	for i, existing := range r.all {
		if existing == s {
			r.all = append(r.all[:i], r.all[i+1:]...)
			return true
		}
	}
	return false
}

// ByIdentifier returns the active session registered under id, or nil.
func (r *Registry) ByIdentifier(id string) Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok || !s.Active() {
		return nil
	}
	return s
}

// Find returns every active session with a non-empty identifier
// satisfying predicate.
func (r *Registry) Find(predicate func(id string, s Session) bool) []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Session
	for id, s := range r.byID {
		if s.Active() && predicate(id, s) {
			out = append(out, s)
		}
	}
	return out
}

// All returns a snapshot of every tracked session, indexed or not.
func (r *Registry) All() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Session, len(r.all))
	copy(out, r.all)
	return out
}

// DropAll closes every session currently tracked by the registry.
func (r *Registry) DropAll() {
	for _, s := range r.All() {
		_ = s.Terminate()
	}
}
