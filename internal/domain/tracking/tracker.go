package tracking

import (
	"context"
	"fmt"
	"time"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// DefaultStaleAfter is the retention window after which an unseen history is
// closed.
const DefaultStaleAfter = 180 * 24 * time.Hour

// Tracker is the price-history state machine.  Callers must serialize Track
// calls per identity; different identities may run concurrently.
type Tracker struct {
	repo       HistoryRepository
	staleAfter time.Duration
	log        logging.Logger
}

// NewTracker constructs a Tracker.  staleAfter <= 0 selects the default
// retention window.
func NewTracker(repo HistoryRepository, staleAfter time.Duration, log logging.Logger) *Tracker {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Tracker{repo: repo, staleAfter: staleAfter, log: log.Named("tracker")}
}

// Track records one price observation.  A new identity seeds a history; an
// unchanged price only refreshes last-seen; a changed price appends an
// observation and updates the counters.  Observations older than the
// history's last-seen are rejected as skewed.
func (t *Tracker) Track(ctx context.Context, identity domlisting.PropertyIdentity, price float64, ts time.Time, source ltypes.Source) (*PriceHistory, error) {
	if price <= 0 {
		return nil, apperrors.InvalidParam("price must be positive")
	}
	if ts.IsZero() {
		ts = time.Now()
	}

	h, err := t.repo.Get(ctx, identity)
	switch {
	case apperrors.IsCode(err, apperrors.ErrCodeHistoryNotFound):
		h = newHistory(identity, price, ts, source)
		if err := t.repo.Save(ctx, h); err != nil {
			return nil, err
		}
		t.log.Debug("history created",
			logging.String("identity", string(identity)),
			logging.Float64("price", price),
		)
		return h, nil
	case err != nil:
		return nil, err
	}

	if ts.Before(h.LastSeen) {
		return nil, apperrors.New(apperrors.ErrCodeObservationSkew,
			fmt.Sprintf("observation at %s predates last seen %s",
				ts.Format(time.RFC3339), h.LastSeen.Format(time.RFC3339)))
	}

	if h.Status == StatusClosed {
		h.Status = StatusOpen
		t.log.Info("history reopened", logging.String("identity", string(identity)))
	}

	if price == h.LastPrice() {
		h.LastSeen = ts
	} else {
		h.append(price, ts, source)
		t.log.Debug("price change recorded",
			logging.String("identity", string(identity)),
			logging.Float64("price", price),
			logging.Int("drops", h.Drops),
		)
	}

	if err := t.repo.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// CloseStale closes every open history unseen for longer than the retention
// window and returns how many were closed.
func (t *Tracker) CloseStale(ctx context.Context, now time.Time) (int, error) {
	open, err := t.repo.ListOpen(ctx)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, h := range open {
		if now.Sub(h.LastSeen) <= t.staleAfter {
			continue
		}
		h.Status = StatusClosed
		if err := t.repo.Save(ctx, h); err != nil {
			return closed, err
		}
		closed++
	}
	if closed > 0 {
		t.log.Info("stale histories closed", logging.Int("count", closed))
	}
	return closed, nil
}

//Personal.AI order the ending
