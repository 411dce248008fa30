// Package config provides configuration loading, defaults, and validation for
// the serbian-estate-intelligence engine.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "ESTATE"

// configKeys enumerates every known configuration key.  AutomaticEnv only
// resolves keys viper has already seen, which Unmarshal never registers, so
// each key is bound explicitly to make the env-only loading path work.
var configKeys = []string{
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns",
	"database.min_conns", "database.conn_max_lifetime",
	"database.conn_max_idle_time", "database.migration_path",

	"redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.min_idle_conns", "redis.dial_timeout", "redis.read_timeout",
	"redis.write_timeout", "redis.default_ttl", "redis.key_prefix",

	"kafka.brokers", "kafka.client_id", "kafka.producer_retries",
	"kafka.batch_size", "kafka.required_acks", "kafka.compression",
	"kafka.timeout_ms",

	"worker.concurrency", "worker.interval", "worker.run_on_start",
	"worker.shutdown_grace",

	"log.level", "log.format", "log.output", "log.enable_caller",
	"log.enable_stacktrace",

	"engine.discount_threshold", "engine.min_comparables",
	"engine.window_days", "engine.area_tolerance",
	"engine.sparse_area_tolerance", "engine.require_same_municipality",
	"engine.stale_after", "engine.focus_cities", "engine.top_opportunities",
	"engine.desperate_threshold", "engine.lock_ttl",
	"engine.criteria.max_price", "engine.criteria.min_area",
	"engine.criteria.max_area", "engine.criteria.min_discount",
	"engine.criteria.min_rating",
}

// newViper builds a pre-configured Viper instance with the engine's standard
// settings: YAML file type, ESTATE_ env prefix, and a key replacer that maps
// "." → "_" so that nested keys like "database.host" resolve to
// "ESTATE_DATABASE_HOST".  Every known key is bound to its environment
// variable up front.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges any ESTATE_* environment
// variable overrides, applies engine defaults for unset fields, and validates
// the result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from ESTATE_* environment variables,
// with no config file required.  This is the preferred loading strategy for
// containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	ESTATE_<SECTION>_<FIELD>   e.g.  ESTATE_DATABASE_HOST, ESTATE_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level and opportunity
// criteria; callers are responsible for applying only the safe subset of
// changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is not called so
// the application never enters a broken state.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
