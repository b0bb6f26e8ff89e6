// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace used for Prometheus metrics.
const MetricNamespace = "devserve"
const MetricSubsystem = "http"

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNamespace,
			Subsystem: MetricSubsystem,
			Name:      "requests_total",
			Help:      "The number of requests served, by status code and method.",
		},
		[]string{"code", "method"},
	)
	responseBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNamespace,
			Subsystem: MetricSubsystem,
			Name:      "response_bytes_total",
			Help:      "The number of response body bytes sent to clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(version.NewCollector(MetricNamespace))
}

func observeResponse(method string, status int, bytes int64) {
	switch method {
	case http.MethodGet, http.MethodHead:
	default:
		method = "other"
	}
	requestsTotal.WithLabelValues(strconv.Itoa(status), method).Inc()
	if bytes > 0 {
		responseBytes.Add(float64(bytes))
	}
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}
