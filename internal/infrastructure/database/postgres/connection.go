// Package postgres manages the PostgreSQL connection pool and schema
// migrations for the engine's persistence layer.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/config"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
)

// Pool-tuning defaults applied when the config leaves a field zero.
const (
	defaultMaxConns        = 25
	defaultMinConns        = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute

	pingTimeout = 5 * time.Second

	// poolUsageWarnRatio triggers a health-check warning when the pool is
	// close to exhaustion.
	poolUsageWarnRatio = 0.8
)

// newPool is a variable to allow mocking in tests.
var newPool = func(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Connection manages the PostgreSQL connection pool.
type Connection struct {
	pool   *pgxpool.Pool
	cfg    config.DatabaseConfig
	logger logging.Logger
	once   sync.Once
}

// NewConnection establishes a pgx connection pool and verifies it with a
// bounded ping.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	poolCfg, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to parse database config")
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	if poolCfg.MaxConns <= 0 {
		poolCfg.MaxConns = defaultMaxConns
	}
	poolCfg.MinConns = int32(cfg.MinConns)
	if poolCfg.MinConns <= 0 {
		poolCfg.MinConns = defaultMinConns
	}
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	if poolCfg.MaxConnLifetime <= 0 {
		poolCfg.MaxConnLifetime = defaultConnMaxLifetime
	}
	poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	if poolCfg.MaxConnIdleTime <= 0 {
		poolCfg.MaxConnIdleTime = defaultConnMaxIdleTime
	}

	pool, err := newPool(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	log.Info("connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
		logging.Int("max_conns", int(poolCfg.MaxConns)),
	)

	return &Connection{
		pool:   pool,
		cfg:    cfg,
		logger: log,
	}, nil
}

// Pool returns the underlying pgx pool for repository construction.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// HealthCheck pings the database and warns when the pool nears exhaustion.
func (c *Connection) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.pool.Ping(pingCtx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}

	stat := c.pool.Stat()
	if stat.MaxConns() > 0 {
		usage := float64(stat.AcquiredConns()) / float64(stat.MaxConns())
		if usage > poolUsageWarnRatio {
			c.logger.Warn("connection pool nearing capacity",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("max", int(stat.MaxConns())),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close releases the pool. Safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(func() {
		c.pool.Close()
		c.logger.Info("database connection pool closed")
	})
}

// Migrate applies pending schema migrations from the configured directory.
func (c *Connection) Migrate() error {
	path := c.cfg.MigrationPath
	if path == "" {
		path = "file://migrations"
	}
	c.logger.Info("running database migrations", logging.String("path", path))
	return RunMigrations(BuildDSN(c.cfg), path)
}

// BuildDSN renders a postgres:// URL from the database config. Statement and
// lock timeouts guard against runaway queries holding the pool.
func BuildDSN(cfg config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("statement_timeout", "30000")
	q.Set("lock_timeout", "10000")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

//Personal.AI order the ending
