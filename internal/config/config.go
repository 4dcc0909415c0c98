// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import "time"

// Config holds all application configuration.
// Configuration is loaded in layers: defaults, optional YAML file, environment variables.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Mongo       MongoConfig       `koanf:"mongo"`
	Redis       RedisConfig       `koanf:"redis"`
	Cache       CacheConfig       `koanf:"cache"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	Encoder     EncoderConfig     `koanf:"encoder"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Signals     SignalsConfig     `koanf:"signals"` // Optional: NATS signal ingestion (build tag nats)
	Preferences PreferencesConfig `koanf:"preferences"`
}

// ServerConfig holds the ops HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// ShutdownTimeout bounds graceful shutdown of the supervisor tree.
	// Default: 30s
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment mode: "development", "staging", "production" (default: "development")
	Environment string `koanf:"environment"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	// Default: mongodb://127.0.0.1:27017
	URI string `koanf:"uri"`

	// Database is the database holding the Books, Users and UserBookshelf collections.
	// Default: shelfwise
	Database string `koanf:"database"`

	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// QueryTimeout bounds a single store round-trip.
	// Default: 10s
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// RedisConfig holds the profile cache connection settings.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// CacheConfig selects and tunes the profile cache.
type CacheConfig struct {
	// Backend is "redis" or "memory".
	// Default: redis
	Backend string `koanf:"backend"`

	// TTL applies to every cached embedding and genre weight map.
	// Default: 1h
	TTL time.Duration `koanf:"ttl"`

	// MaxCost is the byte budget of the memory backend.
	// Default: 64MB
	MaxCost int64 `koanf:"max_cost"`
}

// CatalogConfig holds catalog snapshot and embedding backfill settings.
type CatalogConfig struct {
	// CachePath is the JSON file the snapshot is persisted to.
	// Default: /data/shelfwise/catalog.json
	CachePath string `koanf:"cache_path"`

	// RefreshInterval is the period of the background refresh service.
	// Default: 24h
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// MaxItems caps the number of books loaded per refresh.
	// Default: 10000
	MaxItems int `koanf:"max_items"`

	// RefreshOnStart forces a store refresh even when the cache file exists.
	RefreshOnStart bool `koanf:"refresh_on_start"`

	BatchSize     int     `koanf:"batch_size"`
	Concurrency   int     `koanf:"concurrency"`
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`
}

// EncoderConfig selects the text embedding provider.
type EncoderConfig struct {
	// Provider is "openai", "onnx" or "none".
	// Default: openai
	Provider string `koanf:"provider"`

	// Dimension is the embedding length. Profiles are sized to it.
	// Default: 384
	Dimension int `koanf:"dimension"`

	Timeout time.Duration `koanf:"timeout"`

	// OpenAI-compatible endpoint settings.
	APIKey     string `koanf:"api_key"`
	BaseURL    string `koanf:"base_url"`
	Model      string `koanf:"model"`
	MaxRetries int    `koanf:"max_retries"`

	// ONNX settings, used only when built with the ORT tag.
	ModelPath   string `koanf:"model_path"`
	HFRepo      string `koanf:"hf_repo"`
	CacheDir    string `koanf:"cache_dir"`
	LibraryPath string `koanf:"library_path"`
	Threads     int    `koanf:"threads"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker around the encoder.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MaxHalfOpen  uint32        `koanf:"max_half_open"`
}

// RecommendConfig holds the recommendation engine tunables.
// The embedding dimension is taken from EncoderConfig.Dimension.
type RecommendConfig struct {
	// BlendWeight scales the genre sum in blended scoring. Must be in [0, 1].
	// Default: 0.1
	BlendWeight float64 `koanf:"blend_weight"`

	DefaultCount       int     `koanf:"default_count"`
	MaxCount           int     `koanf:"max_count"`
	Anchors            int     `koanf:"anchors"`
	WindowEnd          int     `koanf:"window_end"`
	DuplicateThreshold float64 `koanf:"duplicate_threshold"`

	RatingPositive float64 `koanf:"rating_positive"`
	RatingNegative float64 `koanf:"rating_negative"`
	RatingNeutral  float64 `koanf:"rating_neutral"`
	Wishlist       float64 `koanf:"wishlist"`
	Onboarding     float64 `koanf:"onboarding"`

	RequestTimeout time.Duration `koanf:"request_timeout"`

	// Seed for the selector. Zero seeds from the clock.
	// Default: 42
	Seed int64 `koanf:"seed"`
}

// SignalsConfig holds NATS JetStream settings for preference signal ingestion.
type SignalsConfig struct {
	// Enabled controls whether the signal consumer runs.
	// Default: false
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server.
	// If false, expects external NATS server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory of the embedded server.
	StoreDir string `koanf:"store_dir"`

	// Stream is the JetStream stream holding signal subjects.
	// Default: SHELFWISE_SIGNALS
	Stream string `koanf:"stream"`

	// SubjectPrefix is prepended to the signal kind.
	// Default: shelfwise.signals
	SubjectPrefix string `koanf:"subject_prefix"`

	DurableName      string `koanf:"durable_name"`
	QueueGroup       string `koanf:"queue_group"`
	SubscribersCount int    `koanf:"subscribers_count"`

	// AckWait is how long JetStream waits before redelivering an unacked signal.
	// Default: 30s
	AckWait time.Duration `koanf:"ack_wait"`

	// RetentionDays is how long signals stay in the stream.
	// Default: 7
	RetentionDays int `koanf:"retention_days"`

	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// PreferencesConfig selects where user profiles are persisted.
type PreferencesConfig struct {
	// Backend is "mongo" or "badger".
	// Default: mongo
	Backend string `koanf:"backend"`

	// BadgerPath is the directory of the badger store.
	BadgerPath string `koanf:"badger_path"`
}

// Load loads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the host:port the ops server listens on.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
