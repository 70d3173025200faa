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

package streaming

import (
	"bytes"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/sse"

	"github.com/latticehttp/lattice/dispatch"
)

// sseState is the session lifecycle: Open -> Closed -> Disposed.
type sseState int32

const (
	sseOpen sseState = iota
	sseClosed
	sseDisposed
)

// ErrNotFlushable is returned when the ResponseWriter given to
// NewSSESession doesn't support http.Flusher.
var ErrNotFlushable = errors.New("streaming: response writer does not support flushing")

// SSESession is a persistent text/event-stream writer: a send queue,
// a keep-alive watchdog, and a blocking wait for close.
type SSESession struct {
	id       string
	w        http.ResponseWriter
	flusher  http.Flusher
	registry *Registry

	state atomic.Int32

	mu            sync.Mutex
	queue         []string
	headerLocked  bool
	bytesSent     int64
	lastWrite     atomic.Int64 // unix nanos

	closed chan struct{}
}

// NewSSESession constructs and opens an SSE session: it writes the
// standard SSE response headers plus any CORS headers the caller supplies
// (from the owning host's CORS policy), sets the state to Open, and
// registers in registry.
func NewSSESession(w http.ResponseWriter, identifier string, corsHeaders http.Header, registry *Registry) (*SSESession, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrNotFlushable
	}

	header := w.Header()
	header.Set("Cache-Control", "no-store, no-cache")
	header.Set("Content-Type", "text/event-stream")
	for k, vs := range corsHeaders {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s := &SSESession{
		id:       identifier,
		w:        w,
		flusher:  flusher,
		registry: registry,
		closed:   make(chan struct{}),
	}
	s.lastWrite.Store(time.Now().UnixNano())

	if registry != nil {
		registry.Register(s)
	}
	return s, nil
}

// Identifier implements Session.
func (s *SSESession) Identifier() string { return s.id }

// Active implements Session: true iff the session is Open.
func (s *SSESession) Active() bool { return sseState(s.state.Load()) == sseOpen }

// AppendHeader sets an additional response header. Allowed only before the
// first Send.
func (s *SSESession) AppendHeader(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.headerLocked {
		return errors.New("streaming: AppendHeader called after first Send")
	}
	s.w.Header().Add(name, value)
	return nil
}

// Send enqueues "data: <text>\n\n" and flushes immediately. It returns
// false if the session is not Open. Any flush I/O failure closes the
// session.
//
// sse.Encode frames as "data:<line>\n\n", one field marker per line of
// the record — this module's wire format wants a space after the colon.
// Send encodes into a scratch buffer first, widens each field marker with
// withDataSpace, then writes the result directly so bytesSent is exactly
// what Write reports, not a guess derived from the input record.
func (s *SSESession) Send(text string) bool {
	if !s.Active() {
		return false
	}

	s.mu.Lock()
	s.headerLocked = true
	s.queue = append(s.queue, text)
	pending := s.queue
	s.queue = nil
	s.mu.Unlock()

	var sent int64
	for _, record := range pending {
		var buf bytes.Buffer
		if err := sse.Encode(&buf, sse.Event{Data: record}); err != nil {
			_ = s.Terminate()
			return false
		}
		n, err := s.w.Write(withDataSpace(buf.Bytes()))
		sent += int64(n)
		if err != nil {
			_ = s.Terminate()
			return false
		}
	}
	s.flusher.Flush()

	s.mu.Lock()
	s.bytesSent += sent
	s.mu.Unlock()
	s.lastWrite.Store(time.Now().UnixNano())
	return true
}

// withDataSpace widens every "data:" field marker sse.Encode wrote into
// "data: ": one at the start of the buffer, and one after every line break
// sse.Encode itself introduced for a multi-line record.
func withDataSpace(raw []byte) []byte {
	const marker = "data:"
	out := make([]byte, 0, len(raw)+4)
	for i := 0; i < len(raw); {
		atBoundary := i == 0 || raw[i-1] == '\n'
		if atBoundary && i+len(marker) <= len(raw) && string(raw[i:i+len(marker)]) == marker {
			out = append(out, marker...)
			out = append(out, ' ')
			i += len(marker)
			continue
		}
		out = append(out, raw[i])
		i++
	}
	return out
}

// BytesSent returns the total bytes written by successful Send calls.
func (s *SSESession) BytesSent() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytesSent
}

// Cancel clears the pending queue without closing the session. Queue
// mutation is serialized by s.mu, so Cancel is safe to call from a
// goroutine other than the one driving Send.
func (s *SSESession) Cancel() {
	s.mu.Lock()
	s.queue = nil
	s.mu.Unlock()
}

// KeepAlive blocks the caller until the session leaves Open.
func (s *SSESession) KeepAlive() {
	<-s.closed
}

// KeepAliveTimeout blocks the caller until the session leaves Open,
// additionally forcing a close if no successful Send happened within
// maxIdle. The watchdog wakes once per second.
func (s *SSESession) KeepAliveTimeout(maxIdle time.Duration) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			last := time.Unix(0, s.lastWrite.Load())
			if time.Since(last) > maxIdle {
				_ = s.Terminate()
				return
			}
		}
	}
}

// Close flushes, transitions to Closed, unregisters, and returns the
// stream-closed response sentinel carrying the bytes-sent counter.
func (s *SSESession) Close() *dispatch.Response {
	_ = s.Terminate()
	return dispatch.StreamClosed(s.BytesSent())
}

// Terminate implements Session for the registry's force-close path: it is
// the same transition Close drives, without the response sentinel.
// Idempotent.
func (s *SSESession) Terminate() error {
	if !s.state.CompareAndSwap(int32(sseOpen), int32(sseClosed)) {
		return nil
	}
	close(s.closed)
	s.flusher.Flush()
	if s.registry != nil {
		s.registry.Unregister(s)
	}
	s.state.Store(int32(sseDisposed))
	return nil
}
