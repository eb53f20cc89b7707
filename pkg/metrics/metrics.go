// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"net/http"
	"sync"

	"github.com/armon/go-metrics"
	"github.com/armon/go-metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var initOnce sync.Once

// Initialize sets up the global metrics collector with a Prometheus sink.
// Counters recorded anywhere in the application become visible on the
// /metrics endpoint. Safe to call more than once.
func Initialize() error {
	var err error
	initOnce.Do(func() {
		var sink *prometheus.PrometheusSink
		sink, err = prometheus.NewPrometheusSink()
		if err != nil {
			return
		}

		conf := metrics.DefaultConfig("upshare")
		conf.EnableHostname = false

		_, err = metrics.NewGlobal(conf, sink)
	})
	return err
}

// Handler returns the http.Handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
