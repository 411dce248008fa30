// Package tracking maintains append-only per-property price histories and
// derives seller-motivation signals from them.
package tracking

import (
	"time"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// Status is the lifecycle state of a history.
type Status string

const (
	// StatusOpen marks a property still being observed.
	StatusOpen Status = "open"

	// StatusClosed marks a property unseen for longer than the retention
	// window. Closed histories are kept for audit and excluded from
	// desperate-seller reports; a fresh observation reopens them.
	StatusClosed Status = "closed"
)

// PriceObservation is one point in a property's price time series.  It is
// immutable once appended.
type PriceObservation struct {
	Price      float64       `json:"price"`
	ObservedAt time.Time     `json:"observed_at"`
	Source     ltypes.Source `json:"source"`

	// ChangeAmount and ChangePercent are relative to the prior
	// observation; zero on the seeding observation.
	ChangeAmount  float64 `json:"change_amount"`
	ChangePercent float64 `json:"change_percent"`
}

// PriceHistory is the per-identity aggregate.  Observations only grow;
// counters and min/max are maintained incrementally on each append.
type PriceHistory struct {
	Identity domlisting.PropertyIdentity `json:"identity"`

	Observations []PriceObservation `json:"observations"`

	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`

	Drops     int `json:"drops"`
	Increases int `json:"increases"`

	Status Status `json:"status"`
}

// newHistory seeds a history with its first observation.
func newHistory(identity domlisting.PropertyIdentity, price float64, ts time.Time, source ltypes.Source) *PriceHistory {
	return &PriceHistory{
		Identity:     identity,
		Observations: []PriceObservation{{Price: price, ObservedAt: ts, Source: source}},
		FirstSeen:    ts,
		LastSeen:     ts,
		MinPrice:     price,
		MaxPrice:     price,
		Status:       StatusOpen,
	}
}

// append records a price change.  The caller guarantees price differs from
// the last observation.
func (h *PriceHistory) append(price float64, ts time.Time, source ltypes.Source) {
	last := h.LastPrice()
	obs := PriceObservation{
		Price:        price,
		ObservedAt:   ts,
		Source:       source,
		ChangeAmount: price - last,
	}
	if last > 0 {
		obs.ChangePercent = (price - last) / last
	}
	h.Observations = append(h.Observations, obs)
	h.LastSeen = ts

	if price < last {
		h.Drops++
	} else {
		h.Increases++
	}
	if price < h.MinPrice {
		h.MinPrice = price
	}
	if price > h.MaxPrice {
		h.MaxPrice = price
	}
}

// LastPrice returns the most recent observed price, 0 on an empty history.
func (h *PriceHistory) LastPrice() float64 {
	if len(h.Observations) == 0 {
		return 0
	}
	return h.Observations[len(h.Observations)-1].Price
}

// FirstPrice returns the seeding price, 0 on an empty history.
func (h *PriceHistory) FirstPrice() float64 {
	if len(h.Observations) == 0 {
		return 0
	}
	return h.Observations[0].Price
}

// DaysOnMarket is the whole number of days between first and last seen.
func (h *PriceHistory) DaysOnMarket() int {
	return int(h.LastSeen.Sub(h.FirstSeen).Hours() / 24)
}

// TotalDropAmount is the cumulative EUR decline from first to last price;
// zero when the price has not net-declined.
func (h *PriceHistory) TotalDropAmount() float64 {
	d := h.FirstPrice() - h.LastPrice()
	if d < 0 {
		return 0
	}
	return d
}

// TotalDropPercent is the net first-to-last decline as a percentage of the
// first price.
func (h *PriceHistory) TotalDropPercent() float64 {
	first := h.FirstPrice()
	if first <= 0 {
		return 0
	}
	return h.TotalDropAmount() / first * 100
}

// ChangeCount is the number of recorded price changes (seeding observation
// excluded).
func (h *PriceHistory) ChangeCount() int {
	if len(h.Observations) == 0 {
		return 0
	}
	return len(h.Observations) - 1
}

// ChangesPerMonth normalizes change frequency over the listing's market
// time; listings younger than a day count as one day.
func (h *PriceHistory) ChangesPerMonth() float64 {
	days := h.DaysOnMarket()
	if days < 1 {
		days = 1
	}
	return float64(h.ChangeCount()) / (float64(days) / 30.0)
}

// IsOpen reports whether the history still participates in reports.
func (h *PriceHistory) IsOpen() bool {
	return h.Status != StatusClosed
}

//Personal.AI order the ending
