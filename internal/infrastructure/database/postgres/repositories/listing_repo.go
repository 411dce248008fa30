package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	appErrors "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// listingColumns is the canonical column list; every SELECT uses it so
// scanListing stays the single mapping point.
const listingColumns = `id, title, price_amount, price_currency,
	city, municipality, street, area, rooms, floor, total_floors,
	tags, listing_type, property_type, source, external_id,
	created_at, last_seen_at, active`

// defaultComparableLimit caps unbounded comparable queries.
const defaultComparableLimit = 50

// ListingRepository is the PostgreSQL implementation of
// domlisting.Repository.
type ListingRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewListingRepository wires a listing repository onto the given pool.
func NewListingRepository(pool *pgxpool.Pool, log logging.Logger) *ListingRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ListingRepository{pool: pool, logger: log.Named("listing_repo")}
}

var _ domlisting.Repository = (*ListingRepository)(nil)

// GetByID loads one listing by primary key.
func (r *ListingRepository) GetByID(ctx context.Context, id ltypes.ID) (*ltypes.Listing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, appErrors.New(appErrors.ErrCodeListingNotFound,
				fmt.Sprintf("listing %s not found", id))
		}
		r.logger.Error("GetByID failed", logging.String("id", string(id)), logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load listing")
	}
	return l, nil
}

// Upsert inserts the listing or, when a row with the same (source,
// external_id) pair exists, refreshes its price, active flag, and last-seen
// timestamp. Listings without an external ID are keyed by their own ID.
func (r *ListingRepository) Upsert(ctx context.Context, l *ltypes.Listing) error {
	var conflict string
	if l.ExternalID != "" {
		conflict = `ON CONFLICT (source, external_id) WHERE external_id <> ''`
	} else {
		conflict = `ON CONFLICT (id)`
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		`+conflict+` DO UPDATE SET
			price_amount   = EXCLUDED.price_amount,
			price_currency = EXCLUDED.price_currency,
			active         = EXCLUDED.active,
			last_seen_at   = EXCLUDED.last_seen_at`,
		l.ID, l.Title, l.Price.Amount, l.Price.Currency,
		l.City, l.Municipality, l.Street, l.Area, l.Rooms, l.Floor, l.TotalFloors,
		l.Tags, l.ListingType, l.PropertyType, l.Source, l.ExternalID,
		l.CreatedAt, l.LastSeenAt, l.Active,
	)
	if err != nil {
		r.logger.Error("Upsert failed", logging.String("id", string(l.ID)), logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to upsert listing")
	}
	return nil
}

// FindComparables builds a dynamic WHERE clause from the set filters. The
// filter semantics mirror the in-memory fixture used by the domain tests.
func (r *ListingRepository) FindComparables(ctx context.Context, q domlisting.ComparableQuery) ([]*ltypes.Listing, error) {
	var (
		conditions []string
		args       []interface{}
		argIdx     int
	)

	nextArg := func(v interface{}) string {
		argIdx++
		args = append(args, v)
		return fmt.Sprintf("$%d", argIdx)
	}

	if q.City != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER(%s)", nextArg(q.City)))
	}
	if q.ListingType != "" {
		conditions = append(conditions, fmt.Sprintf("listing_type = %s", nextArg(q.ListingType)))
	}
	if q.Municipality != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(municipality) = LOWER(%s)", nextArg(q.Municipality)))
	}
	if q.MinArea > 0 {
		conditions = append(conditions, fmt.Sprintf("area >= %s", nextArg(q.MinArea)))
	}
	if q.MaxArea > 0 {
		conditions = append(conditions, fmt.Sprintf("area <= %s", nextArg(q.MaxArea)))
	}
	if q.MinRooms > 0 {
		conditions = append(conditions, fmt.Sprintf("rooms >= %s", nextArg(q.MinRooms)))
	}
	if q.MaxRooms > 0 {
		conditions = append(conditions, fmt.Sprintf("rooms <= %s", nextArg(q.MaxRooms)))
	}
	if !q.CreatedAfter.IsZero() {
		conditions = append(conditions, fmt.Sprintf("created_at >= %s", nextArg(q.CreatedAfter)))
	}
	if q.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}
	if q.ExcludeID != "" {
		conditions = append(conditions, fmt.Sprintf("id <> %s", nextArg(q.ExcludeID)))
	}

	query := `SELECT ` + listingColumns + ` FROM listings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultComparableLimit
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %s", nextArg(limit))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("FindComparables failed", logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to query comparables")
	}
	defer rows.Close()

	return scanListings(rows)
}

// FindActiveByCity returns the active listings for one city and listing
// type, the batch snapshot the hunt pipeline scans.
func (r *ListingRepository) FindActiveByCity(ctx context.Context, city string, lt ltypes.ListingType) ([]*ltypes.Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+listingColumns+` FROM listings
		WHERE LOWER(city) = LOWER($1) AND listing_type = $2 AND active = TRUE
		ORDER BY created_at ASC`, city, lt)
	if err != nil {
		r.logger.Error("FindActiveByCity failed", logging.String("city", city), logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to query active listings")
	}
	defer rows.Close()

	return scanListings(rows)
}

// MarkInactive flags listings that disappeared from their source.
func (r *ListingRepository) MarkInactive(ctx context.Context, ids []ltypes.ID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE listings SET active = FALSE WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Error("MarkInactive failed", logging.Int("count", len(ids)), logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to mark listings inactive")
	}
	return nil
}

func scanListing(row rowScanner) (*ltypes.Listing, error) {
	var l ltypes.Listing
	err := row.Scan(
		&l.ID, &l.Title, &l.Price.Amount, &l.Price.Currency,
		&l.City, &l.Municipality, &l.Street, &l.Area, &l.Rooms, &l.Floor, &l.TotalFloors,
		&l.Tags, &l.ListingType, &l.PropertyType, &l.Source, &l.ExternalID,
		&l.CreatedAt, &l.LastSeenAt, &l.Active,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListings(rows pgx.Rows) ([]*ltypes.Listing, error) {
	var out []*ltypes.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan listing row")
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "listing row iteration failed")
	}
	return out, nil
}

//Personal.AI order the ending
