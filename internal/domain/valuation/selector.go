package valuation

import (
	"context"
	"time"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// roomExactThreshold is the room count at or below which comparables must
// match the subject's rooms exactly (garsonjera and one-room granularity).
const roomExactThreshold = 1.5

// SelectOptions tune one comparable lookup.
type SelectOptions struct {
	// WindowDays bounds comparable creation recency.
	WindowDays int

	// AreaTolerance is the fractional area band around the subject
	// (0.20 routine, 0.30 for sparse markets).
	AreaTolerance float64

	// RequireSameMunicipality restricts to the subject's municipality when
	// the subject has one.
	RequireSameMunicipality bool

	// Limit caps the repository result; 0 uses the repository default.
	Limit int
}

// Selector retrieves the comparable set for a subject listing.  The result
// is unordered and ephemeral; minimum-size policy belongs to the caller.
type Selector struct {
	repo domlisting.Repository
	log  logging.Logger
}

// NewSelector constructs a Selector.
func NewSelector(repo domlisting.Repository, log logging.Logger) *Selector {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Selector{repo: repo, log: log.Named("selector")}
}

// Select returns the active listings statistically similar to subject:
// same city and listing type, created within the window, approximately
// matching rooms and area.  The subject itself is excluded.
func (s *Selector) Select(ctx context.Context, subject *ltypes.Listing, opts SelectOptions, now time.Time) ([]*ltypes.Listing, error) {
	q := domlisting.ComparableQuery{
		City:         subject.City,
		ListingType:  subject.ListingType,
		CreatedAfter: now.AddDate(0, 0, -opts.WindowDays),
		ActiveOnly:   true,
		ExcludeID:    subject.ID,
		Limit:        opts.Limit,
	}

	if opts.RequireSameMunicipality && subject.Municipality != "" {
		q.Municipality = subject.Municipality
	}

	if subject.HasRooms() {
		if subject.Rooms <= roomExactThreshold {
			q.MinRooms = subject.Rooms
			q.MaxRooms = subject.Rooms
		} else {
			q.MinRooms = subject.Rooms - 0.5
			q.MaxRooms = subject.Rooms + 0.5
		}
	}

	if subject.Area > 0 && opts.AreaTolerance > 0 {
		q.MinArea = subject.Area * (1 - opts.AreaTolerance)
		q.MaxArea = subject.Area * (1 + opts.AreaTolerance)
	}

	comps, err := s.repo.FindComparables(ctx, q)
	if err != nil {
		return nil, err
	}

	s.log.Debug("comparables selected",
		logging.String("subject_id", string(subject.ID)),
		logging.String("city", subject.City),
		logging.Int("count", len(comps)),
	)
	return comps, nil
}

//Personal.AI order the ending
