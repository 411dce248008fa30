package tracking

import (
	"context"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
)

// HistoryRepository persists price histories.  Implementations live under
// internal/infrastructure/database; the tracker serializes access per
// identity, so Get-then-Save races are the caller's responsibility.
type HistoryRepository interface {
	// Get returns the history or an ErrCodeHistoryNotFound AppError.
	Get(ctx context.Context, identity domlisting.PropertyIdentity) (*PriceHistory, error)

	// Save upserts the full history state.
	Save(ctx context.Context, h *PriceHistory) error

	// ListOpen returns every open history, the desperate-seller report
	// input.
	ListOpen(ctx context.Context) ([]*PriceHistory, error)
}

//Personal.AI order the ending
