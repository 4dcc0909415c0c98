// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

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

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shelfwise/config.yaml",
	"/etc/shelfwise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8090,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Mongo: MongoConfig{
			URI:            "mongodb://127.0.0.1:27017",
			Database:       "shelfwise",
			ConnectTimeout: 10 * time.Second,
			QueryTimeout:   10 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
			DB:   0,
		},
		Cache: CacheConfig{
			Backend: "redis",
			TTL:     time.Hour,
			MaxCost: 64 << 20, // 64MB
		},
		Catalog: CatalogConfig{
			CachePath:       "/data/shelfwise/catalog.json",
			RefreshInterval: 24 * time.Hour,
			MaxItems:        10000,
			RefreshOnStart:  false,
			BatchSize:       32,
			Concurrency:     2,
			RatePerSecond:   10,
			Burst:           2,
		},
		Encoder: EncoderConfig{
			Provider:   "openai",
			Dimension:  384,
			Timeout:    30 * time.Second,
			Model:      "text-embedding-3-small",
			MaxRetries: 2,
			HFRepo:     "sentence-transformers/all-MiniLM-L6-v2",
			CacheDir:   "/data/shelfwise/models",
			Breaker: BreakerConfig{
				Enabled:      true,
				MinRequests:  10,
				FailureRatio: 0.6,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MaxHalfOpen:  3,
			},
		},
		Recommend: RecommendConfig{
			BlendWeight:        0.1,
			DefaultCount:       6,
			MaxCount:           50,
			Anchors:            2,
			WindowEnd:          40,
			DuplicateThreshold: 50,
			RatingPositive:     1,
			RatingNegative:     -1,
			RatingNeutral:      0,
			Wishlist:           0.5,
			Onboarding:         1,
			RequestTimeout:     30 * time.Second,
			Seed:               42,
		},
		Signals: SignalsConfig{
			Enabled:          false,
			URL:              "nats://127.0.0.1:4222",
			EmbeddedServer:   true,
			StoreDir:         "/data/shelfwise/jetstream",
			Stream:           "SHELFWISE_SIGNALS",
			SubjectPrefix:    "shelfwise.signals",
			DurableName:      "shelfwise-signals",
			QueueGroup:       "shelfwise",
			SubscribersCount: 2,
			AckWait:          30 * time.Second,
			RetentionDays:    7,
			CloseTimeout:     30 * time.Second,
		},
		Preferences: PreferencesConfig{
			Backend:    "mongo",
			BadgerPath: "/data/shelfwise/preferences",
		},
	}
}

// Defaults returns a copy of the built-in configuration, before any file or
// environment layer is applied.
func Defaults() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Default values (lowest priority)
//  2. Config file (config.yaml) - optional
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// MONGO_URI -> mongo.uri
	// CATALOG_MAX_ITEMS -> catalog.max_items
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default locations.
// Returns the path to the first config file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Document store
	"mongo_uri":             "mongo.uri",
	"mongo_database":        "mongo.database",
	"mongo_connect_timeout": "mongo.connect_timeout",
	"mongo_query_timeout":   "mongo.query_timeout",

	// Profile cache
	"redis_addr":     "redis.addr",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",
	"cache_backend":  "cache.backend",
	"cache_ttl":      "cache.ttl",
	"cache_max_cost": "cache.max_cost",

	// Catalog
	"catalog_cache_path":       "catalog.cache_path",
	"catalog_refresh_interval": "catalog.refresh_interval",
	"catalog_max_items":        "catalog.max_items",
	"catalog_refresh_on_start": "catalog.refresh_on_start",
	"backfill_batch_size":      "catalog.batch_size",
	"backfill_concurrency":     "catalog.concurrency",
	"backfill_rate":            "catalog.rate_per_second",
	"backfill_burst":           "catalog.burst",

	// Encoder
	"encoder_provider":     "encoder.provider",
	"encoder_dimension":    "encoder.dimension",
	"encoder_timeout":      "encoder.timeout",
	"encoder_model":        "encoder.model",
	"encoder_max_retries":  "encoder.max_retries",
	"openai_api_key":       "encoder.api_key",
	"openai_base_url":      "encoder.base_url",
	"onnx_model_path":      "encoder.model_path",
	"onnx_hf_repo":         "encoder.hf_repo",
	"onnx_cache_dir":       "encoder.cache_dir",
	"onnx_library_path":    "encoder.library_path",
	"onnx_threads":         "encoder.threads",
	"encoder_breaker":      "encoder.breaker.enabled",
	"encoder_breaker_min":  "encoder.breaker.min_requests",
	"encoder_breaker_rate": "encoder.breaker.failure_ratio",

	// Recommendation engine
	"recommend_blend_weight":        "recommend.blend_weight",
	"recommend_default_count":       "recommend.default_count",
	"recommend_max_count":           "recommend.max_count",
	"recommend_anchors":             "recommend.anchors",
	"recommend_window_end":          "recommend.window_end",
	"recommend_duplicate_threshold": "recommend.duplicate_threshold",
	"recommend_request_timeout":     "recommend.request_timeout",
	"recommend_seed":                "recommend.seed",

	// Signal ingestion
	"nats_enabled":        "signals.enabled",
	"nats_url":            "signals.url",
	"nats_embedded":       "signals.embedded_server",
	"nats_store_dir":      "signals.store_dir",
	"nats_stream":         "signals.stream",
	"nats_subject_prefix": "signals.subject_prefix",
	"nats_durable_name":   "signals.durable_name",
	"nats_queue_group":    "signals.queue_group",
	"nats_subscribers":    "signals.subscribers_count",
	"nats_ack_wait":       "signals.ack_wait",
	"nats_retention_days": "signals.retention_days",

	// Preference store
	"preferences_backend": "preferences.backend",
	"badger_path":         "preferences.badger_path",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MONGO_URI -> mongo.uri
//   - CACHE_TTL -> cache.ttl
//   - OPENAI_API_KEY -> encoder.api_key
//   - NATS_ENABLED -> signals.enabled
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage, such as
// inspecting the effective key set.
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}
