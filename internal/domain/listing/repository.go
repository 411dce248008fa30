package listing

import (
	"context"
	"time"

	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// ComparableQuery carries the repository filters used by comparable selection.
// Zero values disable the corresponding filter except where noted.
type ComparableQuery struct {
	City        string
	ListingType ltypes.ListingType

	// Municipality filters exactly when non-empty.
	Municipality string

	// Area band.  Both bounds set by the selector from the subject's area
	// and tolerance.
	MinArea float64
	MaxArea float64

	// Rooms band.  Exact match is expressed as MinRooms == MaxRooms.
	MinRooms float64
	MaxRooms float64

	// CreatedAfter bounds comparable recency.
	CreatedAfter time.Time

	// ActiveOnly restricts to listings still advertised.
	ActiveOnly bool

	// ExcludeID keeps the subject itself out of its comparable set.
	ExcludeID ltypes.ID

	// Limit caps the result size; 0 means repository default.
	Limit int
}

// Repository is the persistence contract the engine consumes.  Implementations
// live under internal/infrastructure/database; tests use the in-memory
// fixture from internal/testutil.
type Repository interface {
	// GetByID returns the listing or an ErrCodeListingNotFound AppError.
	GetByID(ctx context.Context, id ltypes.ID) (*ltypes.Listing, error)

	// Upsert inserts the listing or refreshes an existing row keyed by
	// (source, external_id), updating price, active flag, and last-seen.
	Upsert(ctx context.Context, l *ltypes.Listing) error

	// FindComparables returns listings matching every set filter, unordered.
	FindComparables(ctx context.Context, q ComparableQuery) ([]*ltypes.Listing, error)

	// FindActiveByCity returns the active listings for one city, the hunt
	// pipeline's batch snapshot input.
	FindActiveByCity(ctx context.Context, city string, listingType ltypes.ListingType) ([]*ltypes.Listing, error)

	// MarkInactive flags listings that disappeared from their source.
	MarkInactive(ctx context.Context, ids []ltypes.ID) error
}

//Personal.AI order the ending
