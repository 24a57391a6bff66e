// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

// Package config loads and validates runtime configuration.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment layer: CREDENTRY_LOG_FORMAT maps to
// the log-format key, and so on.
const envPrefix = "CREDENTRY_"

// Storage backend names.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds runtime configuration for the credentry server.
type Config struct {
	HTTPAddr    string `koanf:"http-addr"`
	MetricsAddr string `koanf:"metrics-addr"`
	DatabaseURL string `koanf:"database-url"`
	Store       string `koanf:"store"`
	LogFormat   string `koanf:"log-format"`
}

// Defaults for serve flags; flag defaults are the base layer of the merge.
const (
	DefaultHTTPAddr    = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultStore       = StorePostgres
	DefaultLogFormat   = "json"
)

// Load merges configuration layers in increasing precedence: flag defaults,
// an optional YAML file, CREDENTRY_-prefixed environment variables, then
// flags set on the command line. The bare DATABASE_URL variable fills
// database-url when every other layer leaves it empty, so the URL can stay
// out of config files.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
	}), nil); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "merge environment").
			Wrap(err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "merge flags").
			Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "unmarshal").
			Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http-addr is required")
	}
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return oops.Code("CONFIG_INVALID").Errorf("store must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}
	if c.Store == StorePostgres && c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database-url (or DATABASE_URL) is required with the postgres store")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	return nil
}
