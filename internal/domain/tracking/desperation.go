package tracking

import (
	"fmt"
	"time"
)

// Desperation sub-term caps and thresholds.
const (
	dropTermCap      = 30.0
	dropTermPerDrop  = 10.0
	totalDropTermCap = 30.0

	daysTermLong   = 20.0 // > 90 days
	daysTermMedium = 15.0 // > 60 days
	daysTermShort  = 10.0 // > 30 days

	frequencyBonus     = 20.0
	frequencyThreshold = 3.0 // changes per month

	desperationMax = 100.0
)

// DesperationBreakdown itemizes the desperation score.  Sub-terms carry
// individual caps; Total is additionally clipped to [0, 100].
type DesperationBreakdown struct {
	DropCount    float64 `json:"drop_count"`
	TimeOnMarket float64 `json:"time_on_market"`
	TotalDrop    float64 `json:"total_drop"`
	Frequency    float64 `json:"frequency"`

	Total int `json:"total"`
}

// Desperation grades how motivated the seller appears, 0-100.  The score is
// monotonically non-decreasing in drop count, days on market and net decline.
func Desperation(h *PriceHistory) DesperationBreakdown {
	b := DesperationBreakdown{}

	b.DropCount = float64(h.Drops) * dropTermPerDrop
	if b.DropCount > dropTermCap {
		b.DropCount = dropTermCap
	}

	switch days := h.DaysOnMarket(); {
	case days > 90:
		b.TimeOnMarket = daysTermLong
	case days > 60:
		b.TimeOnMarket = daysTermMedium
	case days > 30:
		b.TimeOnMarket = daysTermShort
	}

	b.TotalDrop = h.TotalDropPercent()
	if b.TotalDrop > totalDropTermCap {
		b.TotalDrop = totalDropTermCap
	}

	if h.ChangesPerMonth() > frequencyThreshold {
		b.Frequency = frequencyBonus
	}

	total := b.DropCount + b.TimeOnMarket + b.TotalDrop + b.Frequency
	if total > desperationMax {
		total = desperationMax
	}
	if total < 0 {
		total = 0
	}
	b.Total = int(total)
	return b
}

// Negotiation tiers.
const (
	desperationHigh   = 80
	desperationMedium = 60

	offerAggressive = 0.80
	offerModerate   = 0.85
	offerCautious   = 0.90

	offerFloor   = 0.75
	offerCeiling = 0.95
)

// Stance labels the aggressiveness of a recommendation.
type Stance string

const (
	StanceAggressive Stance = "aggressive"
	StanceModerate   Stance = "moderate"
	StanceCautious   Stance = "cautious"
)

// Recommendation is a suggested opening offer with the facts backing it.
type Recommendation struct {
	Desperation    DesperationBreakdown `json:"desperation"`
	Stance         Stance               `json:"stance"`
	SuggestedOffer float64              `json:"suggested_offer"`
	TalkingPoints  []string             `json:"talking_points,omitempty"`
}

// Recommend derives a negotiation recommendation from the history.  The
// offer is a fraction of the last price, floored at 75% and capped at 95%.
// Talking points cite observed facts only.
func Recommend(h *PriceHistory, now time.Time) Recommendation {
	rec := Recommendation{Desperation: Desperation(h)}

	var fraction float64
	switch {
	case rec.Desperation.Total >= desperationHigh:
		rec.Stance = StanceAggressive
		fraction = offerAggressive
	case rec.Desperation.Total >= desperationMedium:
		rec.Stance = StanceModerate
		fraction = offerModerate
	default:
		rec.Stance = StanceCautious
		fraction = offerCautious
	}
	if fraction < offerFloor {
		fraction = offerFloor
	}
	if fraction > offerCeiling {
		fraction = offerCeiling
	}
	rec.SuggestedOffer = h.LastPrice() * fraction

	if days := h.DaysOnMarket(); days > 60 {
		rec.TalkingPoints = append(rec.TalkingPoints,
			fmt.Sprintf("oglas je aktivan već %d dana", days))
	}
	if h.Drops > 2 {
		rec.TalkingPoints = append(rec.TalkingPoints,
			fmt.Sprintf("cena je snižena %d puta", h.Drops))
	}
	if drop := h.TotalDropAmount(); drop > 10000 {
		rec.TalkingPoints = append(rec.TalkingPoints,
			fmt.Sprintf("cena je ukupno pala %.0f EUR od prvog oglašavanja", drop))
	}
	switch now.Month() {
	case time.December, time.January, time.February:
		rec.TalkingPoints = append(rec.TalkingPoints,
			"zimski period je tradicionalno slabija sezona prodaje")
	}

	return rec
}

//Personal.AI order the ending
