// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateMongo(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateEncoder(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSignals(); err != nil {
		return err
	}

	return c.validatePreferences()
}

// validateServer validates the ops listener settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.Environment != "" && !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	return c.validateLogFormat()
}

// validateLogLevel validates the log level configuration
func (c *Config) validateLogLevel() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	return nil
}

// validateLogFormat validates the log format configuration
func (c *Config) validateLogFormat() error {
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateMongo validates the document store settings.
// Mongo is required for the catalog and shelves even with the badger preference backend.
func (c *Config) validateMongo() error {
	if err := validateMongoURI(c.Mongo.URI); err != nil {
		return fmt.Errorf("MONGO_URI is invalid: %w", err)
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DATABASE is required")
	}
	if c.Mongo.ConnectTimeout <= 0 || c.Mongo.QueryTimeout <= 0 {
		return fmt.Errorf("MONGO_CONNECT_TIMEOUT and MONGO_QUERY_TIMEOUT must be positive")
	}
	return nil
}

// validateCache validates the profile cache settings
func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("REDIS_DB must be non-negative, got %d", c.Redis.DB)
		}
	case "memory":
		if c.Cache.MaxCost <= 0 {
			return fmt.Errorf("CACHE_MAX_COST must be positive when CACHE_BACKEND=memory")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: redis, memory")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

// validateCatalog validates the catalog snapshot and backfill settings
func (c *Config) validateCatalog() error {
	if c.Catalog.CachePath == "" {
		return fmt.Errorf("CATALOG_CACHE_PATH is required")
	}
	if c.Catalog.RefreshInterval <= 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must be positive")
	}
	if c.Catalog.MaxItems < 1 {
		return fmt.Errorf("CATALOG_MAX_ITEMS must be at least 1, got %d", c.Catalog.MaxItems)
	}
	if c.Catalog.BatchSize < 1 || c.Catalog.Concurrency < 1 {
		return fmt.Errorf("BACKFILL_BATCH_SIZE and BACKFILL_CONCURRENCY must be at least 1")
	}
	if c.Catalog.RatePerSecond < 0 {
		return fmt.Errorf("BACKFILL_RATE must be non-negative")
	}
	if c.Catalog.RatePerSecond > 0 && c.Catalog.Burst < 1 {
		return fmt.Errorf("BACKFILL_BURST must be at least 1 when BACKFILL_RATE is set")
	}
	return nil
}

// validateEncoder validates the embedding provider settings
func (c *Config) validateEncoder() error {
	if c.Encoder.Dimension < 1 {
		return fmt.Errorf("ENCODER_DIMENSION must be at least 1, got %d", c.Encoder.Dimension)
	}

	switch c.Encoder.Provider {
	case "none":
		return nil
	case "openai":
		if c.Encoder.Model == "" {
			return fmt.Errorf("ENCODER_MODEL is required when ENCODER_PROVIDER=openai")
		}
		if c.Encoder.BaseURL != "" {
			if err := validateHTTPURL(c.Encoder.BaseURL, "OPENAI_BASE_URL"); err != nil {
				return err
			}
		}
		// Local OpenAI-compatible servers run without a key.
		if c.Encoder.APIKey == "" && c.Encoder.BaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when ENCODER_PROVIDER=openai and OPENAI_BASE_URL is unset")
		}
		if containsPlaceholder(c.Encoder.APIKey) {
			return fmt.Errorf("OPENAI_API_KEY appears to be a placeholder value")
		}
	case "onnx":
		if c.Encoder.ModelPath == "" && c.Encoder.HFRepo == "" {
			return fmt.Errorf("ONNX_MODEL_PATH or ONNX_HF_REPO is required when ENCODER_PROVIDER=onnx")
		}
	default:
		return fmt.Errorf("ENCODER_PROVIDER must be one of: openai, onnx, none")
	}

	if c.Encoder.Timeout <= 0 {
		return fmt.Errorf("ENCODER_TIMEOUT must be positive")
	}
	return c.validateBreaker()
}

// validateBreaker validates the encoder circuit breaker
func (c *Config) validateBreaker() error {
	b := c.Encoder.Breaker
	if !b.Enabled {
		return nil
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("encoder breaker failure_ratio must be in (0, 1], got %f", b.FailureRatio)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("encoder breaker timeout must be positive")
	}
	return nil
}

// validateRecommend validates the engine tunables. The engine validates
// its own config again on construction; these checks surface the env var names.
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.BlendWeight < 0 || r.BlendWeight > 1 {
		return fmt.Errorf("RECOMMEND_BLEND_WEIGHT must be in [0, 1], got %f", r.BlendWeight)
	}
	if r.DefaultCount < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_COUNT must be at least 1, got %d", r.DefaultCount)
	}
	if r.MaxCount < r.DefaultCount {
		return fmt.Errorf("RECOMMEND_MAX_COUNT (%d) must be >= RECOMMEND_DEFAULT_COUNT (%d)", r.MaxCount, r.DefaultCount)
	}
	if r.Anchors < 0 || r.WindowEnd < r.Anchors {
		return fmt.Errorf("RECOMMEND_WINDOW_END (%d) must be >= RECOMMEND_ANCHORS (%d) >= 0", r.WindowEnd, r.Anchors)
	}
	if r.DuplicateThreshold < 0 || r.DuplicateThreshold > 100 {
		return fmt.Errorf("RECOMMEND_DUPLICATE_THRESHOLD must be in [0, 100], got %f", r.DuplicateThreshold)
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// validateSignals validates NATS configuration (only if enabled)
func (c *Config) validateSignals() error {
	if !c.Signals.Enabled {
		return nil
	}
	if !c.Signals.EmbeddedServer {
		if err := validateNATSURL(c.Signals.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	}
	if c.Signals.Stream == "" || c.Signals.SubjectPrefix == "" {
		return fmt.Errorf("NATS_STREAM and NATS_SUBJECT_PREFIX are required when NATS_ENABLED=true")
	}
	if strings.ContainsAny(c.Signals.SubjectPrefix, "*> ") {
		return fmt.Errorf("NATS_SUBJECT_PREFIX must not contain wildcards or spaces")
	}
	if c.Signals.DurableName == "" {
		return fmt.Errorf("NATS_DURABLE_NAME is required when NATS_ENABLED=true")
	}
	if c.Signals.SubscribersCount < 1 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be at least 1, got %d", c.Signals.SubscribersCount)
	}
	if c.Signals.RetentionDays < 1 {
		return fmt.Errorf("NATS_RETENTION_DAYS must be at least 1, got %d", c.Signals.RetentionDays)
	}
	return nil
}

// validatePreferences validates the preference store backend
func (c *Config) validatePreferences() error {
	switch c.Preferences.Backend {
	case "mongo":
		return nil
	case "badger":
		if c.Preferences.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when PREFERENCES_BACKEND=badger")
		}
		return nil
	default:
		return fmt.Errorf("PREFERENCES_BACKEND must be one of: mongo, badger")
	}
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_API_KEY",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
