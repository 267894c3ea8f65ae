// Package config loads server configuration from an optional .env file and
// TABDB_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the tabdb server settings.
type Config struct {
	// ListenAddr is the TCP address the wire-protocol server binds.
	ListenAddr string `mapstructure:"listen_addr"`

	// MetricsAddr, when non-empty, serves Prometheus metrics over HTTP.
	MetricsAddr string `mapstructure:"metrics_addr"`

	// AuthToken, when non-empty, must accompany every request.
	AuthToken string `mapstructure:"auth_token"`

	// MaxConnections bounds concurrently served connections.
	MaxConnections int `mapstructure:"max_connections"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ListenAddr:     ":7090",
		MaxConnections: 128,
	}
}

const envPrefix = "TABDB_"

// Load reads the optional .env file, then overlays TABDB_* environment
// variables (TABDB_LISTEN_ADDR -> listen_addr) on top of the defaults.
func Load() (Config, error) {
	v := viper.New()

	cfg := Default()
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)
	v.SetDefault("auth_token", cfg.AuthToken)
	v.SetDefault("max_connections", cfg.MaxConnections)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// The .env file is optional; only real parse failures matter.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read .env: %w", err)
		}
	}

	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, val := pair[0], pair[1]
		if strings.HasPrefix(key, envPrefix) {
			propKey := strings.ToLower(strings.TrimPrefix(key, envPrefix))
			v.Set(propKey, val)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
