// Package config provides configuration loading, defaults, and validation for
// the serbian-estate-intelligence engine.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "estate"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "estate:"
	DefaultRedisTTL       = 15 * time.Minute

	DefaultKafkaBroker   = "localhost:9092"
	DefaultKafkaClientID = "estate-engine"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkerConcurrency = 8
	DefaultWorkerInterval    = 6 * time.Hour

	DefaultDiscountThreshold   = 0.10
	DefaultMinComparables      = 3
	DefaultWindowDays          = 30
	DefaultAreaTolerance       = 0.20
	DefaultSparseAreaTolerance = 0.30
	DefaultStaleAfter          = 180 * 24 * time.Hour
	DefaultTopOpportunities    = 20
	DefaultDesperateThreshold  = 60
	DefaultLockTTL             = 30 * time.Second
)

// DefaultFocusCities are the markets scanned when none are configured.
var DefaultFocusCities = []string{"Beograd", "Novi Sad", "Novi Pazar", "Zlatibor"}

// ApplyDefaults fills every zero-value field in cfg with the engine default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate() so that
// optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.RequiredAcks == "" {
		cfg.Kafka.RequiredAcks = "all"
	}
	if cfg.Kafka.Compression == "" {
		cfg.Kafka.Compression = "snappy"
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.Interval == 0 {
		cfg.Worker.Interval = DefaultWorkerInterval
	}
	if cfg.Worker.ShutdownGrace == 0 {
		cfg.Worker.ShutdownGrace = 30 * time.Second
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	if cfg.Engine.DiscountThreshold == 0 {
		cfg.Engine.DiscountThreshold = DefaultDiscountThreshold
	}
	if cfg.Engine.MinComparables == 0 {
		cfg.Engine.MinComparables = DefaultMinComparables
	}
	if cfg.Engine.WindowDays == 0 {
		cfg.Engine.WindowDays = DefaultWindowDays
	}
	if cfg.Engine.AreaTolerance == 0 {
		cfg.Engine.AreaTolerance = DefaultAreaTolerance
	}
	if cfg.Engine.SparseAreaTolerance == 0 {
		cfg.Engine.SparseAreaTolerance = DefaultSparseAreaTolerance
	}
	if cfg.Engine.StaleAfter == 0 {
		cfg.Engine.StaleAfter = DefaultStaleAfter
	}
	if len(cfg.Engine.FocusCities) == 0 {
		cfg.Engine.FocusCities = append([]string(nil), DefaultFocusCities...)
	}
	if cfg.Engine.TopOpportunities == 0 {
		cfg.Engine.TopOpportunities = DefaultTopOpportunities
	}
	if cfg.Engine.DesperateThreshold == 0 {
		cfg.Engine.DesperateThreshold = DefaultDesperateThreshold
	}
	if cfg.Engine.LockTTL == 0 {
		cfg.Engine.LockTTL = DefaultLockTTL
	}
}

//Personal.AI order the ending
