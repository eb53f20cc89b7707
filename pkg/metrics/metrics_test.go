// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_Idempotent(t *testing.T) {
	require.NoError(t, Initialize())
	require.NoError(t, Initialize())
}

func TestHandler_ServesExposition(t *testing.T) {
	require.NoError(t, Initialize())

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
