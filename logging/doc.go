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

// Package logging builds structured slog.Loggers on top of a JSON or text
// handler, with service metadata, sampling, startup buffering, and
// OpenTelemetry trace correlation via ContextLogger.
//
// dispatch.Dispatcher takes one of these via dispatch.WithLogger and
// derives a per-request ContextLogger from each request's context, so a
// request carrying an active OpenTelemetry span gets trace_id/span_id on
// every line its handlers and middleware log.
//
//	logger := logging.MustNew(logging.WithJSONHandler(), logging.WithServiceName("lattice"))
//	d := dispatch.New(resolver, 8080, dispatch.WithLogger(logger))
//
// Sensitive fields (password, token, secret, api_key, authorization) are
// redacted from log output automatically. A logger supplied through
// WithCustomLogger is used as given, without this redaction.
package logging
