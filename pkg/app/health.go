// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// HealthzHandler reports liveness. The server has no dependencies to probe;
// answering at all means it is healthy.
func HealthzHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			fmt.Fprintln(w, "ok")
		}
	})
}

// HealthCheck probes the /healthz endpoint of a running server at addr and
// writes the result to out. Used by the "health" subcommand.
func HealthCheck(out io.Writer, addr string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get("http://" + addr + "/healthz")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %s", resp.Status)
	}
	fmt.Fprintln(out, "Server is healthy.")
	return nil
}
