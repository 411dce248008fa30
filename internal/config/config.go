// Package config defines all configuration structures for the
// serbian-estate-intelligence engine.  No I/O or parsing logic lives here —
// only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer parameters.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	ClientID        string   `mapstructure:"client_id"`
	ProducerRetries int      `mapstructure:"producer_retries"`
	BatchSize       int      `mapstructure:"batch_size"`
	RequiredAcks    string   `mapstructure:"required_acks"` // "none" | "one" | "all"
	Compression     string   `mapstructure:"compression"`   // "none" | "gzip" | "snappy" | "lz4" | "zstd"
	TimeoutMS       int      `mapstructure:"timeout_ms"`
}

// WorkerConfig holds batch-worker execution parameters.
type WorkerConfig struct {
	Concurrency   int           `mapstructure:"concurrency"`
	Interval      time.Duration `mapstructure:"interval"`
	RunOnStart    bool          `mapstructure:"run_on_start"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "text"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}

// CriteriaConfig filters opportunities before ranking.  Zero values disable
// the corresponding bound.
type CriteriaConfig struct {
	MaxPrice    float64 `mapstructure:"max_price"`
	MinArea     float64 `mapstructure:"min_area"`
	MaxArea     float64 `mapstructure:"max_area"`
	MinDiscount float64 `mapstructure:"min_discount"`
	MinRating   string  `mapstructure:"min_rating"` // "AAA" | "AA" | "A" | "B" | "C"
}

// EngineConfig holds the valuation and tracking tunables.  The domain
// components never hard-code these; they receive them at construction.
type EngineConfig struct {
	// DiscountThreshold is the minimum discount for the good-deal flag.
	DiscountThreshold float64 `mapstructure:"discount_threshold"`

	// MinComparables is the minimum comparable-set size for a
	// comparable-based estimate.
	MinComparables int `mapstructure:"min_comparables"`

	// WindowDays bounds comparable recency.
	WindowDays int `mapstructure:"window_days"`

	// AreaTolerance is the routine comparable area band (fraction).
	AreaTolerance float64 `mapstructure:"area_tolerance"`

	// SparseAreaTolerance is the widened band for sparse markets.
	SparseAreaTolerance float64 `mapstructure:"sparse_area_tolerance"`

	// RequireSameMunicipality restricts comparables to the subject's
	// municipality when the subject has one.
	RequireSameMunicipality bool `mapstructure:"require_same_municipality"`

	// StaleAfter closes price histories not seen for this long.
	StaleAfter time.Duration `mapstructure:"stale_after"`

	// FocusCities are the markets the hunt pipeline scans.
	FocusCities []string `mapstructure:"focus_cities"`

	// TopOpportunities caps the ranked opportunity report length.
	TopOpportunities int `mapstructure:"top_opportunities"`

	// DesperateThreshold is the minimum desperation score for the
	// desperate-seller report.
	DesperateThreshold int `mapstructure:"desperate_threshold"`

	// LockTTL bounds how long a per-identity tracking lock may be held.
	LockTTL time.Duration `mapstructure:"lock_ttl"`

	Criteria CriteriaConfig `mapstructure:"criteria"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the engine.  Every
// infrastructure component and application service reads its settings from
// the relevant sub-struct.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Log      LogConfig      `mapstructure:"log"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
	}

	// Redis
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be ≥ 1, got %d", c.Worker.Concurrency)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|text", c.Log.Format)
	}

	// Engine
	if c.Engine.MinComparables < 1 {
		return fmt.Errorf("config: engine.min_comparables must be ≥ 1, got %d", c.Engine.MinComparables)
	}
	if c.Engine.WindowDays < 1 {
		return fmt.Errorf("config: engine.window_days must be ≥ 1, got %d", c.Engine.WindowDays)
	}
	if c.Engine.AreaTolerance <= 0 || c.Engine.AreaTolerance >= 1 {
		return fmt.Errorf("config: engine.area_tolerance %.2f is out of range (0, 1)", c.Engine.AreaTolerance)
	}
	if c.Engine.SparseAreaTolerance < c.Engine.AreaTolerance {
		return fmt.Errorf("config: engine.sparse_area_tolerance %.2f must be ≥ area_tolerance %.2f",
			c.Engine.SparseAreaTolerance, c.Engine.AreaTolerance)
	}
	if c.Engine.DiscountThreshold < 0 || c.Engine.DiscountThreshold >= 1 {
		return fmt.Errorf("config: engine.discount_threshold %.2f is out of range [0, 1)", c.Engine.DiscountThreshold)
	}
	switch c.Engine.Criteria.MinRating {
	case "", "AAA", "AA", "A", "B", "C":
	default:
		return fmt.Errorf("config: engine.criteria.min_rating %q is invalid; expected AAA|AA|A|B|C",
			c.Engine.Criteria.MinRating)
	}

	return nil
}

//Personal.AI order the ending
