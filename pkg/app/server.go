/*
 * Copyright 2025 Author(s) of Upshare
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"github.com/upshare/upshare/pkg/config"
	"github.com/upshare/upshare/pkg/logging"
	"github.com/upshare/upshare/pkg/metrics"
	"github.com/upshare/upshare/pkg/middleware"
	"github.com/upshare/upshare/pkg/share"
)

// Runner is the interface the CLI drives. It exists so command tests can
// substitute a mock for the real server.
type Runner interface {
	Run(ctx context.Context, fs afero.Fs, cfg *config.ServerConfig) error
}

// Application is the production Runner.
type Application struct{}

// NewApplication creates a new Application.
func NewApplication() *Application {
	return &Application{}
}

// NewHTTPHandler assembles the full handler chain: the share handler as the
// catch-all behind /healthz and /metrics, wrapped in security headers and
// access logging.
func NewHTTPHandler(fs afero.Fs, cfg *config.ServerConfig) http.Handler {
	router := mux.NewRouter()
	router.Handle("/healthz", HealthzHandler()).Methods(http.MethodGet, http.MethodHead)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.PathPrefix("/").Handler(share.NewHandler(fs, cfg.Root, cfg.MaxUploadSize))

	return middleware.AccessLog(middleware.SecurityHeaders(router))
}

// Run starts the HTTP server and blocks until ctx is canceled or the server
// fails. The listener is bound before Run reports the serving address, so a
// configured port of 0 picks a free port.
func (a *Application) Run(ctx context.Context, fs afero.Fs, cfg *config.ServerConfig) error {
	log := logging.GetLogger()
	fs = setup(fs)

	lis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	server := &http.Server{Handler: NewHTTPHandler(fs, cfg)}

	errChan := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("HTTP server listening", "addr", lis.Addr().String(), "root", cfg.Root)
		if err := server.Serve(lis); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("Received shutdown signal, shutting down gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	wg.Wait()
	log.Info("Server shut down.")
	return nil
}

// setup ensures a valid afero.Fs, defaulting to the OS filesystem if nil is
// provided.
func setup(fs afero.Fs) afero.Fs {
	if fs == nil {
		logging.GetLogger().Warn("Run called with nil afero.Fs, defaulting to OS filesystem.")
		fs = afero.NewOsFs()
	}
	return fs
}
