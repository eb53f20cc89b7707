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

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/upshare/upshare/pkg/app"
	"github.com/upshare/upshare/pkg/appconsts"
	"github.com/upshare/upshare/pkg/config"
	"github.com/upshare/upshare/pkg/logging"
	"github.com/upshare/upshare/pkg/metrics"
)

var appRunner app.Runner = app.NewApplication()

// newRootCmd creates the main command for the server. It wires the
// command-line flags and environment bindings, initializes logging and
// metrics, and runs the server until interrupted.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appconsts.Name,
		Short: "Upshare serves a directory tree over HTTP and accepts file uploads into it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadServerConfig()

			logLevel := slog.LevelInfo
			if cfg.Debug {
				logLevel = slog.LevelDebug
			}

			var logOutput io.Writer = os.Stdout
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err != nil {
					return fmt.Errorf("failed to open logfile: %w", err)
				}
				defer f.Close()
				logOutput = f
			}
			logging.Init(logLevel, logOutput)

			if err := metrics.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize metrics: %w", err)
			}
			log := logging.GetLogger().With("service", appconsts.Name)

			// The server root is passed around explicitly from here on; no
			// component falls back to the working directory.
			root, err := filepath.Abs(cfg.Root)
			if err != nil {
				return fmt.Errorf("failed to resolve root directory: %w", err)
			}
			cfg.Root = root

			log.Info("Configuration", "port", cfg.Port, "bind", cfg.Bind, "root", cfg.Root)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := appRunner.Run(ctx, afero.NewOsFs(), cfg); err != nil {
				log.Error("Application failed", "error", err)
				return err
			}
			log.Info("Shutdown complete.")
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of upshare",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appconsts.Name, appconsts.Version)
			if err != nil {
				return fmt.Errorf("failed to print version: %w", err)
			}
			return nil
		},
	}
	rootCmd.AddCommand(versionCmd)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Run a health check against a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadServerConfig()
			addr := cfg.Bind
			if addr == "" {
				addr = "localhost"
			}
			addr = fmt.Sprintf("%s:%d", addr, cfg.Port)
			timeout, _ := cmd.Flags().GetDuration("timeout")
			return app.HealthCheck(cmd.OutOrStdout(), addr, timeout)
		},
	}
	healthCmd.Flags().Duration("timeout", 5*time.Second, "Timeout for the health check.")
	rootCmd.AddCommand(healthCmd)

	config.BindFlags(rootCmd)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
