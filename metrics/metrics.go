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

// Package metrics implements a Prometheus-backed dispatch.Observer: the
// built-in HTTP metrics (request duration, count, active requests, body
// sizes, errors) exposed directly against a Prometheus registry.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/latticehttp/lattice/dispatch"
)

// Recorder is a dispatch.Observer that records request counts, durations,
// and body sizes against a Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	activeRequests  prometheus.Gauge
	requestSize     prometheus.Histogram
	responseSize    prometheus.Histogram
	errorCount      *prometheus.CounterVec

	active int64
}

// New constructs a Recorder registered against its own Prometheus registry,
// namespaced under serviceName, with the built-in metric set (request
// duration, request count, active requests, request/response size, error
// count).
func New(serviceName string) *Recorder {
	reg := prometheus.NewRegistry()
	return &Recorder{
		registry: reg,
		requestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "request_duration_seconds",
			Help:      "Request handling duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
		requestCount: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "requests_total",
			Help:      "Total requests processed.",
		}, []string{"method", "outcome"}),
		activeRequests: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "requests_active",
			Help:      "Requests currently being processed.",
		}),
		requestSize: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "request_size_bytes",
			Help:      "Request body size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		responseSize: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "response_size_bytes",
			Help:      "Response body size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		errorCount: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "errors_total",
			Help:      "Requests that ended in an error outcome.",
		}, []string{"outcome"}),
	}
}

// OnConnectionOpen implements dispatch.Observer.
func (r *Recorder) OnConnectionOpen(req *dispatch.Request) {
	atomic.AddInt64(&r.active, 1)
	r.activeRequests.Set(float64(atomic.LoadInt64(&r.active)))
	r.requestSize.Observe(float64(len(req.Body)))
}

// OnConnectionClose implements dispatch.Observer.
func (r *Recorder) OnConnectionClose(result dispatch.Result) {
	atomic.AddInt64(&r.active, -1)
	r.activeRequests.Set(float64(atomic.LoadInt64(&r.active)))

	outcome := result.Outcome.String()
	method := ""
	if result.Request != nil {
		method = result.Request.Method
	}
	r.requestCount.WithLabelValues(method, outcome).Inc()
	r.requestDuration.WithLabelValues(method, outcome).Observe(result.ElapsedMillis / 1000)
	r.responseSize.Observe(float64(result.BytesOut))

	switch result.Outcome {
	case dispatch.ExceptionThrown, dispatch.UncaughtExceptionThrown, dispatch.MalformedRequest, dispatch.DnsFailed, dispatch.DnsUnknownHost:
		r.errorCount.WithLabelValues(outcome).Inc()
	}
}

// Handler returns the /metrics scrape endpoint for this Recorder's
// registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
