package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	appErrors "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
)

const historyColumns = `identity, observations, first_seen, last_seen,
	min_price, max_price, drops, increases, status`

// HistoryRepository is the PostgreSQL implementation of
// tracking.HistoryRepository. The observation series is stored as a JSONB
// document on the history row, so Save replaces the whole aggregate in one
// statement and readers never see a partially-updated series.
type HistoryRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewHistoryRepository wires a price-history repository onto the given pool.
func NewHistoryRepository(pool *pgxpool.Pool, log logging.Logger) *HistoryRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HistoryRepository{pool: pool, logger: log.Named("history_repo")}
}

var _ tracking.HistoryRepository = (*HistoryRepository)(nil)

// Get loads the history for one property identity.
func (r *HistoryRepository) Get(ctx context.Context, identity domlisting.PropertyIdentity) (*tracking.PriceHistory, error) {
	h, err := scanHistory(r.pool.QueryRow(ctx,
		`SELECT `+historyColumns+` FROM price_histories WHERE identity = $1`, identity))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, appErrors.New(appErrors.ErrCodeHistoryNotFound,
				fmt.Sprintf("no price history for identity %s", identity))
		}
		r.logger.Error("Get failed", logging.String("identity", string(identity)), logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load price history")
	}
	return h, nil
}

// Save upserts the full aggregate keyed by identity.
func (r *HistoryRepository) Save(ctx context.Context, h *tracking.PriceHistory) error {
	obsJSON, err := json.Marshal(h.Observations)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to encode observations")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO price_histories (`+historyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (identity) DO UPDATE SET
			observations = EXCLUDED.observations,
			last_seen    = EXCLUDED.last_seen,
			min_price    = EXCLUDED.min_price,
			max_price    = EXCLUDED.max_price,
			drops        = EXCLUDED.drops,
			increases    = EXCLUDED.increases,
			status       = EXCLUDED.status`,
		h.Identity, obsJSON, h.FirstSeen, h.LastSeen,
		h.MinPrice, h.MaxPrice, h.Drops, h.Increases, h.Status,
	)
	if err != nil {
		r.logger.Error("Save failed", logging.String("identity", string(h.Identity)), logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to save price history")
	}
	return nil
}

// ListOpen returns all histories still being observed.
func (r *HistoryRepository) ListOpen(ctx context.Context) ([]*tracking.PriceHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+historyColumns+` FROM price_histories
		WHERE status = $1
		ORDER BY identity ASC`, tracking.StatusOpen)
	if err != nil {
		r.logger.Error("ListOpen failed", logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to query open histories")
	}
	defer rows.Close()

	var out []*tracking.PriceHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan history row")
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "history row iteration failed")
	}
	return out, nil
}

func scanHistory(row rowScanner) (*tracking.PriceHistory, error) {
	var (
		h       tracking.PriceHistory
		obsJSON []byte
	)
	err := row.Scan(
		&h.Identity, &obsJSON, &h.FirstSeen, &h.LastSeen,
		&h.MinPrice, &h.MaxPrice, &h.Drops, &h.Increases, &h.Status,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(obsJSON, &h.Observations); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to decode observations")
	}
	return &h, nil
}

//Personal.AI order the ending
