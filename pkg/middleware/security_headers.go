// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"net/http"
)

// SecurityHeaders adds security headers to every response. The CSP allows
// inline styles because the directory listing page carries its style block
// inline.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		next.ServeHTTP(w, r)
	})
}
