package testutil

import (
	"context"
	"sync"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
	apperrors "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
)

// InMemoryHistoryRepo implements tracking.HistoryRepository over a map.
type InMemoryHistoryRepo struct {
	mu        sync.RWMutex
	histories map[domlisting.PropertyIdentity]*tracking.PriceHistory
}

// NewInMemoryHistoryRepo creates an empty history fixture.
func NewInMemoryHistoryRepo() *InMemoryHistoryRepo {
	return &InMemoryHistoryRepo{
		histories: make(map[domlisting.PropertyIdentity]*tracking.PriceHistory),
	}
}

func (r *InMemoryHistoryRepo) Get(_ context.Context, identity domlisting.PropertyIdentity) (*tracking.PriceHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.histories[identity]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeHistoryNotFound, "no history for "+string(identity))
	}
	return h, nil
}

func (r *InMemoryHistoryRepo) Save(_ context.Context, h *tracking.PriceHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories[h.Identity] = h
	return nil
}

func (r *InMemoryHistoryRepo) ListOpen(_ context.Context) ([]*tracking.PriceHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*tracking.PriceHistory, 0, len(r.histories))
	for _, h := range r.histories {
		if h.IsOpen() {
			out = append(out, h)
		}
	}
	return out, nil
}

// Len reports the number of stored histories.
func (r *InMemoryHistoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.histories)
}

//Personal.AI order the ending
