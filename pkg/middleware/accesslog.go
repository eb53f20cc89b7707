// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"net/http"
	"time"

	"github.com/armon/go-metrics"
	"github.com/upshare/upshare/pkg/logging"
)

// statusRecorder captures the status code written to the response so the
// access log can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AccessLog logs one line per request and records request count and latency
// metrics, labeled by method.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.IncrCounterWithLabels([]string{"http", "requests"}, 1, []metrics.Label{
			{Name: "method", Value: r.Method},
		})
		metrics.MeasureSince([]string{"http", "latency"}, start)

		logging.GetLogger().Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}
