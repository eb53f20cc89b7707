// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Healthy(t *testing.T) {
	srv := httptest.NewServer(HealthzHandler())
	defer srv.Close()

	var out bytes.Buffer
	addr := strings.TrimPrefix(srv.URL, "http://")
	require.NoError(t, HealthCheck(&out, addr, time.Second))
	assert.Contains(t, out.String(), "healthy")
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out bytes.Buffer
	addr := strings.TrimPrefix(srv.URL, "http://")
	assert.Error(t, HealthCheck(&out, addr, time.Second))
}

func TestHealthCheck_NoServer(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, HealthCheck(&out, "127.0.0.1:1", 200*time.Millisecond))
}
