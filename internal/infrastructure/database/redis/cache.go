package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/application/hunt"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

const defaultValuationTTL = 15 * time.Minute

// ValuationCache stores valuation results as JSON under a per-listing key.
// Failures degrade to cache misses so Redis outages never stall a batch.
type ValuationCache struct {
	client *Client
	ttl    time.Duration
	logger logging.Logger
}

// CacheOption tunes the valuation cache.
type CacheOption func(*ValuationCache)

// WithTTL overrides the default result lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *ValuationCache) { c.ttl = ttl }
}

// NewValuationCache builds the cache on top of a connected client.
func NewValuationCache(client *Client, log logging.Logger, opts ...CacheOption) *ValuationCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &ValuationCache{
		client: client,
		ttl:    defaultValuationTTL,
		logger: log.Named("valuation_cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ hunt.ValuationCache = (*ValuationCache)(nil)

func (c *ValuationCache) key(id ltypes.ID) string {
	return c.client.KeyPrefix() + "valuation:" + string(id)
}

// jitterTTL spreads expirations +/- 10% so a batch of writes does not expire
// as one thundering herd.
func (c *ValuationCache) jitterTTL(ttl time.Duration) time.Duration {
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *ValuationCache) Get(ctx context.Context, id ltypes.ID) (*valuation.Result, bool) {
	data, err := c.client.Underlying().Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache get failed", logging.String("id", string(id)), logging.Err(err))
		return nil, false
	}

	var res valuation.Result
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", logging.String("id", string(id)), logging.Err(err))
		c.client.Underlying().Del(ctx, c.key(id))
		return nil, false
	}
	return &res, true
}

func (c *ValuationCache) Set(ctx context.Context, id ltypes.ID, res *valuation.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("cache encode failed", logging.String("id", string(id)), logging.Err(err))
		return
	}
	if err := c.client.Underlying().Set(ctx, c.key(id), data, c.jitterTTL(c.ttl)).Err(); err != nil {
		c.logger.Warn("cache set failed", logging.String("id", string(id)), logging.Err(err))
	}
}

// Invalidate drops cached results, used when a listing's price changes.
func (c *ValuationCache) Invalidate(ctx context.Context, ids ...ltypes.ID) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	if err := c.client.Underlying().Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", logging.Int("count", len(ids)), logging.Err(err))
	}
}

//Personal.AI order the ending
