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

package logging

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"
)

// logAttrPool provides pooled attribute slices for convenience methods.
// [Logger.LogRequest], [Logger.LogError], and [Logger.LogDuration] use this pool
// to build attribute lists.
var logAttrPool = sync.Pool{
	New: func() any {
		s := make([]any, 0, 16)
		return &s
	},
}

// LogRequest logs an HTTP request with method, path, remote address,
// user agent, and query string (if any), plus any extra key/value pairs.
func (l *Logger) LogRequest(r *http.Request, extra ...any) {
	if l.isShuttingDown.Load() {
		return
	}

	attrsPtr := logAttrPool.Get().(*[]any)
	attrs := (*attrsPtr)[:0]
	defer func() {
		*attrsPtr = (*attrsPtr)[:0]
		logAttrPool.Put(attrsPtr)
	}()

	attrs = append(attrs,
		"method", r.Method,
		"path", r.URL.Path,
		"remote", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)
	if r.URL.RawQuery != "" {
		attrs = append(attrs, "query", r.URL.RawQuery)
	}
	attrs = append(attrs, extra...)
	l.Info("http request", attrs...)
}

// LogError logs err at error level with an "error" field carrying its
// message, plus any extra key/value pairs.
func (l *Logger) LogError(err error, msg string, extra ...any) {
	if l.isShuttingDown.Load() {
		return
	}

	attrsPtr := logAttrPool.Get().(*[]any)
	attrs := (*attrsPtr)[:0]
	defer func() {
		*attrsPtr = (*attrsPtr)[:0]
		logAttrPool.Put(attrsPtr)
	}()

	attrs = append(attrs, "error", err.Error())
	attrs = append(attrs, extra...)
	l.Error(msg, attrs...)
}

// LogDuration logs msg at info level with duration_ms and duration fields
// computed from time.Since(start), plus any extra key/value pairs.
func (l *Logger) LogDuration(msg string, start time.Time, extra ...any) {
	if l.isShuttingDown.Load() {
		return
	}

	duration := time.Since(start)
	attrsPtr := logAttrPool.Get().(*[]any)
	attrs := (*attrsPtr)[:0]
	defer func() {
		*attrsPtr = (*attrsPtr)[:0]
		logAttrPool.Put(attrsPtr)
	}()

	attrs = append(attrs,
		"duration_ms", duration.Milliseconds(),
		"duration", duration.String(),
	)
	attrs = append(attrs, extra...)
	l.Info(msg, attrs...)
}

// ErrorWithStack logs err at error level, capturing a stack trace when
// includeStack is set. Reserve stack capture for unexpected failures
// (panics, invariant violations); skip it for routine validation errors.
func (l *Logger) ErrorWithStack(msg string, err error, includeStack bool, extra ...any) {
	if l.isShuttingDown.Load() {
		return
	}

	attrsPtr := logAttrPool.Get().(*[]any)
	attrs := (*attrsPtr)[:0]
	defer func() {
		*attrsPtr = (*attrsPtr)[:0]
		logAttrPool.Put(attrsPtr)
	}()

	attrs = append(attrs, "error", err.Error())

	if includeStack {
		attrs = append(attrs, "stack", captureStack(3))
	}

	attrs = append(attrs, extra...)

	l.log(slog.LevelError, msg, attrs...)
}

// captureStack captures a stack trace, skipping the first skip frames
// (3 skips runtime.Callers, captureStack, and ErrorWithStack, so the trace
// starts at ErrorWithStack's caller).
func captureStack(skip int) string {
	var buf strings.Builder
	pcs := make([]uintptr, 10)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return buf.String()
}
