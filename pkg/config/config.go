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

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ServerConfig holds the resolved runtime configuration of the server.
// Flags and environment variables are the only sources; there is no
// configuration file.
type ServerConfig struct {
	Port            int
	Bind            string
	Root            string
	Debug           bool
	LogFile         string
	ShutdownTimeout time.Duration
	MaxUploadSize   int64
}

// BindFlags registers the server's command line flags on cmd and binds them
// to viper, so each flag can also be set through an UPSHARE_* environment
// variable (dashes become underscores).
func BindFlags(cmd *cobra.Command) {
	cobra.OnInitialize(func() {
		viper.SetEnvPrefix("UPSHARE")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
	})

	// Port and bind are persistent so the health subcommand can target the
	// same server the root command would start.
	cmd.PersistentFlags().IntP("port", "p", 8000, "Port to listen on. Env: UPSHARE_PORT")
	cmd.PersistentFlags().StringP("bind", "b", "", "Address to bind to; empty means all interfaces. Env: UPSHARE_BIND")
	if err := viper.BindPFlag("port", cmd.PersistentFlags().Lookup("port")); err != nil {
		fmt.Printf("Error binding port flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("bind", cmd.PersistentFlags().Lookup("bind")); err != nil {
		fmt.Printf("Error binding bind flag: %v\n", err)
		os.Exit(1)
	}

	cmd.Flags().StringP("root", "r", "", "Directory to serve; defaults to the current working directory. Env: UPSHARE_ROOT")
	cmd.Flags().Bool("debug", false, "Enable debug logging. Env: UPSHARE_DEBUG")
	cmd.Flags().String("logfile", "", "Path to a file to write logs to. If not set, logs are written to stdout.")
	cmd.Flags().Duration("shutdown-timeout", 5*time.Second, "Graceful shutdown timeout. Env: UPSHARE_SHUTDOWN_TIMEOUT")
	cmd.Flags().Int64("max-upload-size", 64<<20, "Maximum accepted upload body size in bytes. Env: UPSHARE_MAX_UPLOAD_SIZE")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("Error binding command line flags: %v\n", err)
		os.Exit(1)
	}
}

// LoadServerConfig reads the bound flags and environment into a ServerConfig.
// An empty root falls back to the process working directory so the server
// root is always explicit from here on.
func LoadServerConfig() *ServerConfig {
	cfg := &ServerConfig{
		Port:            viper.GetInt("port"),
		Bind:            viper.GetString("bind"),
		Root:            viper.GetString("root"),
		Debug:           viper.GetBool("debug"),
		LogFile:         viper.GetString("logfile"),
		ShutdownTimeout: viper.GetDuration("shutdown-timeout"),
		MaxUploadSize:   viper.GetInt64("max-upload-size"),
	}
	if cfg.Root == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.Root = cwd
		}
	}
	return cfg
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}
