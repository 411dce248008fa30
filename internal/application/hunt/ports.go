// Package hunt orchestrates the batch pipeline: snapshot collection,
// duplicate detection, concurrent valuation and scoring, per-identity price
// tracking, and report publication.
package hunt

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/dedup"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/scoring"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// Locker serializes tracking per property identity.  Implementations live
// under internal/infrastructure/database/redis; tests use NopLocker.
type Locker interface {
	// Acquire blocks until the key is held or the context ends.  The
	// returned release function must always be called.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// NopLocker is a Locker that never blocks, for tests.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}

// stripeCount trades memory for contention; identities hashing to the same
// stripe share a mutex, which is safe but occasionally over-serializes.
const stripeCount = 64

// StripedLocker serializes per key within a single process.  It is the
// default when no distributed lock is configured.
type StripedLocker struct {
	stripes [stripeCount]sync.Mutex
}

// NewStripedLocker constructs a StripedLocker.
func NewStripedLocker() *StripedLocker {
	return &StripedLocker{}
}

// Acquire locks the stripe the key hashes to.  The TTL is ignored; mutexes
// cannot expire.
func (l *StripedLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &l.stripes[h.Sum32()%stripeCount]
	m.Lock()
	return m.Unlock, nil
}

// ValuationCache short-circuits repeated estimates for unchanged listings.
// A nil cache is valid and disables caching.
type ValuationCache interface {
	Get(ctx context.Context, id ltypes.ID) (*valuation.Result, bool)
	Set(ctx context.Context, id ltypes.ID, res *valuation.Result)
}

// EventPublisher ships pipeline output to the notification layer.  Publish
// failures must not abort the batch; the pipeline logs and continues.
type EventPublisher interface {
	PublishOpportunities(ctx context.Context, opps []*scoring.Opportunity) error
	PublishDesperateSellers(ctx context.Context, sellers []*tracking.DesperateSeller) error
	PublishDuplicates(ctx context.Context, groups []*dedup.DuplicateGroup) error
	PublishFraudAlerts(ctx context.Context, alerts []dedup.FraudAlert) error
}

//Personal.AI order the ending
