package testutil

import (
	"context"
	"strings"
	"sync"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	apperrors "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// InMemoryListingRepo implements domlisting.Repository over a map, with the
// same filter semantics the SQL repository applies.
type InMemoryListingRepo struct {
	mu       sync.RWMutex
	byID     map[ltypes.ID]*ltypes.Listing
	identity map[string]ltypes.ID // source|external_id -> id
}

// NewInMemoryListingRepo creates an empty repository fixture.
func NewInMemoryListingRepo() *InMemoryListingRepo {
	return &InMemoryListingRepo{
		byID:     make(map[ltypes.ID]*ltypes.Listing),
		identity: make(map[string]ltypes.ID),
	}
}

// Seed inserts listings without upsert semantics, for test setup.
func (r *InMemoryListingRepo) Seed(listings ...*ltypes.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range listings {
		r.byID[l.ID] = l
		if l.Source != "" && l.ExternalID != "" {
			r.identity[string(l.Source)+"|"+l.ExternalID] = l.ID
		}
	}
}

func (r *InMemoryListingRepo) GetByID(_ context.Context, id ltypes.ID) (*ltypes.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeListingNotFound, "listing "+string(id)+" not found")
	}
	return l, nil
}

func (r *InMemoryListingRepo) Upsert(_ context.Context, l *ltypes.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := string(l.Source) + "|" + l.ExternalID
	if existingID, ok := r.identity[key]; ok && l.ExternalID != "" {
		existing := r.byID[existingID]
		existing.Price = l.Price
		existing.Active = l.Active
		existing.LastSeenAt = l.LastSeenAt
		return nil
	}
	r.byID[l.ID] = l
	if l.ExternalID != "" {
		r.identity[key] = l.ID
	}
	return nil
}

func (r *InMemoryListingRepo) FindComparables(_ context.Context, q domlisting.ComparableQuery) ([]*ltypes.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ltypes.Listing
	for _, l := range r.byID {
		if !matches(l, q) {
			continue
		}
		out = append(out, l)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (r *InMemoryListingRepo) FindActiveByCity(_ context.Context, city string, lt ltypes.ListingType) ([]*ltypes.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ltypes.Listing
	for _, l := range r.byID {
		if l.Active && strings.EqualFold(l.City, city) && l.ListingType == lt {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *InMemoryListingRepo) MarkInactive(_ context.Context, ids []ltypes.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if l, ok := r.byID[id]; ok {
			l.Active = false
		}
	}
	return nil
}

func matches(l *ltypes.Listing, q domlisting.ComparableQuery) bool {
	if q.City != "" && !strings.EqualFold(l.City, q.City) {
		return false
	}
	if q.ListingType != "" && l.ListingType != q.ListingType {
		return false
	}
	if q.Municipality != "" && !strings.EqualFold(l.Municipality, q.Municipality) {
		return false
	}
	if q.MinArea > 0 && l.Area < q.MinArea {
		return false
	}
	if q.MaxArea > 0 && l.Area > q.MaxArea {
		return false
	}
	if q.MinRooms > 0 && l.Rooms < q.MinRooms {
		return false
	}
	if q.MaxRooms > 0 && l.Rooms > q.MaxRooms {
		return false
	}
	if !q.CreatedAfter.IsZero() && l.CreatedAt.Before(q.CreatedAfter) {
		return false
	}
	if q.ActiveOnly && !l.Active {
		return false
	}
	if q.ExcludeID != "" && l.ID == q.ExcludeID {
		return false
	}
	return true
}

//Personal.AI order the ending
