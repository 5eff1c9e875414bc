// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package config loads layered configuration: struct defaults, then an
// optional YAML file, then ADMITRA_* environment variables. Later layers
// win.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces our environment variables. ADMITRA_SERVER_PORT maps
// to server.port.
const envPrefix = "ADMITRA_"

// Config is the root configuration tree.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Resolver  ResolverConfig  `koanf:"resolver"`
	Recommend RecommendConfig `koanf:"recommend"`
	Integrity IntegrityConfig `koanf:"integrity"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig controls the DuckDB store.
type DatabaseConfig struct {
	Path         string `koanf:"path"` // empty = in-memory
	MaxOpenConns int    `koanf:"max_open_conns"`
	SeedDemoData bool   `koanf:"seed_demo_data"`
}

// CacheConfig selects and sizes the resolution cache.
type CacheConfig struct {
	Backend       string        `koanf:"backend"` // memory|badger
	BadgerPath    string        `koanf:"badger_path"`
	PositiveTTL   time.Duration `koanf:"positive_ttl"`
	NegativeTTL   time.Duration `koanf:"negative_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// ResolverConfig tunes entity resolution.
type ResolverConfig struct {
	FuzzyThreshold   float64 `koanf:"fuzzy_threshold"`
	CandidateLimit   int     `koanf:"candidate_limit"`
	BatchConcurrency int     `koanf:"batch_concurrency"`
	BatchRateLimit   float64 `koanf:"batch_rate_limit"` // store queries/sec across a batch
}

// RecommendConfig tunes the recommendation merge engine.
type RecommendConfig struct {
	DefaultLimit int           `koanf:"default_limit"`
	MaxLimit     int           `koanf:"max_limit"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	TrendingDays int           `koanf:"trending_days"`
}

// IntegrityConfig tunes integrity sweeps.
type IntegrityConfig struct {
	DefaultSampleSize int `koanf:"default_sample_size"`
	MaxSampleSize     int `koanf:"max_sample_size"`
}

// APIConfig controls cross-cutting HTTP behavior.
type APIConfig struct {
	CORSOrigins      []string `koanf:"cors_origins"`
	RateLimitPerMin  int      `koanf:"rate_limit_per_min"`
	EnableMetrics    bool     `koanf:"enable_metrics"`
	MaxBatchQueries  int      `koanf:"max_batch_queries"`
	MaxGraphDepth    int      `koanf:"max_graph_depth"`
	DefaultGraphHops int      `koanf:"default_graph_hops"`
}

// LoggingConfig controls the zerolog wrapper.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults returns the baseline configuration before file and env layers.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:         "",
			MaxOpenConns: 8,
		},
		Cache: CacheConfig{
			Backend:       "memory",
			BadgerPath:    "./data/cache",
			PositiveTTL:   15 * time.Minute,
			NegativeTTL:   2 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		Resolver: ResolverConfig{
			FuzzyThreshold:   0.7,
			CandidateLimit:   200,
			BatchConcurrency: 8,
			BatchRateLimit:   100,
		},
		Recommend: RecommendConfig{
			DefaultLimit: 10,
			MaxLimit:     50,
			CacheTTL:     time.Minute,
			TrendingDays: 30,
		},
		Integrity: IntegrityConfig{
			DefaultSampleSize: 1000,
			MaxSampleSize:     10000,
		},
		API: APIConfig{
			CORSOrigins:      []string{"*"},
			RateLimitPerMin:  300,
			EnableMetrics:    true,
			MaxBatchQueries:  100,
			MaxGraphDepth:    5,
			DefaultGraphHops: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransform maps ADMITRA_SERVER_PORT to server.port. Single-level keys
// only; list values are comma-separated in YAML, not env.
func envTransform(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.Replace(s, "_", ".", 1)
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	switch c.Cache.Backend {
	case "memory", "badger":
	default:
		return fmt.Errorf("config: cache.backend %q must be memory or badger", c.Cache.Backend)
	}
	if c.Cache.Backend == "badger" && c.Cache.BadgerPath == "" {
		return fmt.Errorf("config: cache.badger_path required for badger backend")
	}
	if c.Resolver.FuzzyThreshold <= 0 || c.Resolver.FuzzyThreshold >= 1 {
		return fmt.Errorf("config: resolver.fuzzy_threshold %v must be in (0, 1)",
			c.Resolver.FuzzyThreshold)
	}
	if c.Resolver.BatchConcurrency < 1 {
		return fmt.Errorf("config: resolver.batch_concurrency must be positive")
	}
	if c.Recommend.DefaultLimit < 1 || c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("config: recommend.default_limit %d invalid against max %d",
			c.Recommend.DefaultLimit, c.Recommend.MaxLimit)
	}
	if c.Integrity.DefaultSampleSize < 1 {
		return fmt.Errorf("config: integrity.default_sample_size must be positive")
	}
	if c.API.MaxGraphDepth > 5 {
		return fmt.Errorf("config: api.max_graph_depth %d exceeds hard cap 5", c.API.MaxGraphDepth)
	}
	return nil
}
