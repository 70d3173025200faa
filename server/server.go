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

// Package server wires a Dispatcher to a net/http.Server, with graceful
// shutdown and optional cleartext HTTP/2 (h2c), the embedding surface a
// program uses to actually listen on a port.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/latticehttp/lattice/dispatch"
	"github.com/latticehttp/lattice/logging"
)

// Server wraps a Dispatcher with the listening concerns the core itself
// stays silent on: timeouts, h2c, and graceful shutdown.
type Server struct {
	dispatcher *dispatch.Dispatcher

	enableH2C         bool
	readTimeout       time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration

	wrap   func(http.Handler) http.Handler
	logger *logging.Logger

	mu  sync.Mutex
	srv *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithH2C enables cleartext HTTP/2, intended for local development or
// deployments sitting behind a trusted load balancer that already
// terminates TLS.
func WithH2C(enabled bool) Option { return func(s *Server) { s.enableH2C = enabled } }

// WithTimeouts overrides the default http.Server timeouts.
func WithTimeouts(read, write, idle, readHeader time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
		s.idleTimeout = idle
		s.readHeaderTimeout = readHeader
	}
}

// WithShutdownTimeout bounds how long graceful shutdown waits for
// in-flight requests to finish.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithHandlerWrap installs an outer http.Handler wrapper around the
// dispatcher, for middleware that must run before routing (methodoverride,
// a strip-trailing-slash redirect) rather than as per-route middleware.
func WithHandlerWrap(wrap func(http.Handler) http.Handler) Option {
	return func(s *Server) { s.wrap = wrap }
}

// WithServerLogger sets the logger used for Serve/ServeTLS/Shutdown
// diagnostics: listen address, shutdown signal received, and forced
// shutdown or listen errors. This is independent of the per-request
// logger a Dispatcher is given via dispatch.WithLogger.
func WithServerLogger(l *logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New constructs a Server around d.
func New(d *dispatch.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher:        d,
		readTimeout:       15 * time.Second,
		writeTimeout:      30 * time.Second,
		idleTimeout:       120 * time.Second,
		readHeaderTimeout: 5 * time.Second,
		shutdownTimeout:   30 * time.Second,
		logger:            logging.MustNew(logging.WithOutput(io.Discard)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) handler() http.Handler {
	h := http.Handler(s.dispatcher)
	if s.wrap != nil {
		h = s.wrap(h)
	}
	if s.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
	}
	return h
}

func (s *Server) newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
		ReadHeaderTimeout: s.readHeaderTimeout,
	}
}

// Serve listens on addr and blocks until the context is canceled or the
// server errors, then drains in-flight requests within the shutdown
// timeout.
func (s *Server) Serve(ctx context.Context, addr string) error {
	return s.run(ctx, addr, func(srv *http.Server) error { return srv.ListenAndServe() })
}

// ServeTLS is Serve's TLS counterpart; HTTP/2 is negotiated automatically
// via ALPN and h2c is never applied (TLS already multiplexes HTTP/2).
func (s *Server) ServeTLS(ctx context.Context, addr, certFile, keyFile string) error {
	return s.run(ctx, addr, func(srv *http.Server) error {
		return srv.ListenAndServeTLS(certFile, keyFile)
	})
}

func (s *Server) run(ctx context.Context, addr string, start func(*http.Server) error) error {
	srv := s.newHTTPServer(addr)
	if s.enableH2C {
		srv.Handler = s.handler()
	}

	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", addr, "h2c", s.enableH2C)

	serveErr := make(chan error, 1)
	go func() {
		if err := start(srv); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("server: %w", err)
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			s.logger.LogError(err, "server exited")
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down", "addr", addr)
	shutdownBegan := time.Now()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.LogError(err, "server forced shutdown", "addr", addr)
		return fmt.Errorf("server: forced shutdown: %w", err)
	}
	s.logger.LogDuration("server stopped", shutdownBegan, "addr", addr)
	return nil
}

// Shutdown gracefully stops a running server started by Serve/ServeTLS.
// It's a no-op if the server isn't running.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logger.Info("server shutdown requested")
	return srv.Shutdown(ctx)
}
