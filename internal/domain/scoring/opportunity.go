package scoring

import (
	"sort"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// Alert annotates an opportunity with a notable condition.
type Alert string

const (
	AlertHighDiscount    Alert = "HIGH_DISCOUNT"
	AlertUrgentSale      Alert = "URGENT_SALE"
	AlertPriceDrop       Alert = "PRICE_DROP"
	AlertDesperateSeller Alert = "DESPERATE_SELLER"
)

// highDiscountThreshold triggers the HIGH_DISCOUNT alert.
const highDiscountThreshold = 0.20

// monthlyRentRate is the flat rent heuristic: monthly rent ≈ 0.4% of the
// property's estimated value.
const monthlyRentRate = 0.004

// Opportunity pairs a listing with its valuation and score for reporting.
type Opportunity struct {
	Listing   *ltypes.Listing   `json:"listing"`
	Valuation *valuation.Result `json:"valuation"`
	Breakdown ScoreBreakdown    `json:"breakdown"`
	Alerts    []Alert           `json:"alerts,omitempty"`

	// EstimatedMonthlyRent and GrossYearlyYield are heuristic rental
	// economics; yield is relative to the asking price.
	EstimatedMonthlyRent float64 `json:"estimated_monthly_rent"`
	GrossYearlyYield     float64 `json:"gross_yearly_yield"`

	// Rank is 1-based position after sorting, assigned by RankOpportunities.
	Rank int `json:"rank"`
}

// Score is the boosted, clipped total from the breakdown.
func (o *Opportunity) Score() float64 {
	return o.Breakdown.Total
}

// BuildOpportunity assembles an opportunity record.  priceDropped and
// desperate come from the price tracker and drive the alert annotations;
// desperate must match the flag given to Scorer.Score.
func BuildOpportunity(l *ltypes.Listing, v *valuation.Result, b ScoreBreakdown, priceDropped, desperate bool) *Opportunity {
	o := &Opportunity{
		Listing:   l,
		Valuation: v,
		Breakdown: b,
	}
	if v.DiscountOrZero() > highDiscountThreshold {
		o.Alerts = append(o.Alerts, AlertHighDiscount)
	}
	if l.HasKeyword("hitno") {
		o.Alerts = append(o.Alerts, AlertUrgentSale)
	}
	if priceDropped {
		o.Alerts = append(o.Alerts, AlertPriceDrop)
	}
	if desperate {
		o.Alerts = append(o.Alerts, AlertDesperateSeller)
	}

	o.EstimatedMonthlyRent = v.EstimatedValue * monthlyRentRate
	if l.Price.IsPositive() {
		o.GrossYearlyYield = o.EstimatedMonthlyRent * 12 / l.Price.Amount
	}
	return o
}

// Criteria filters opportunities before ranking.  Zero values disable the
// corresponding check.
type Criteria struct {
	MaxPrice    float64
	MinArea     float64
	MaxArea     float64
	MinDiscount float64
	MinRating   valuation.InvestmentRating
}

// Meets reports whether an opportunity passes every enabled criterion.
func (c Criteria) Meets(o *Opportunity) bool {
	if c.MaxPrice > 0 && o.Listing.Price.Amount > c.MaxPrice {
		return false
	}
	if c.MinArea > 0 && o.Listing.Area < c.MinArea {
		return false
	}
	if c.MaxArea > 0 && o.Listing.Area > c.MaxArea {
		return false
	}
	if c.MinDiscount > 0 && o.Valuation.DiscountOrZero() < c.MinDiscount {
		return false
	}
	if c.MinRating != "" &&
		valuation.ScoreForRating(o.Valuation.Rating) < valuation.ScoreForRating(c.MinRating) {
		return false
	}
	return true
}

// Filter returns the opportunities meeting the criteria, preserving order.
func (c Criteria) Filter(opps []*Opportunity) []*Opportunity {
	out := make([]*Opportunity, 0, len(opps))
	for _, o := range opps {
		if c.Meets(o) {
			out = append(out, o)
		}
	}
	return out
}

// RankOpportunities sorts by descending score and assigns 1-based ranks.
// Ties break by higher discount, then lexicographic listing ID, so repeated
// runs over the same batch produce identical reports.
func RankOpportunities(opps []*Opportunity) []*Opportunity {
	sorted := make([]*Opportunity, len(opps))
	copy(sorted, opps)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Score(), sorted[j].Score()
		if si != sj {
			return si > sj
		}
		di, dj := sorted[i].Valuation.DiscountOrZero(), sorted[j].Valuation.DiscountOrZero()
		if di != dj {
			return di > dj
		}
		return sorted[i].Listing.ID < sorted[j].Listing.ID
	})
	for i, o := range sorted {
		o.Rank = i + 1
	}
	return sorted
}

// Top returns the first n ranked opportunities (all when n <= 0 or the list
// is shorter).
func Top(ranked []*Opportunity, n int) []*Opportunity {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

//Personal.AI order the ending
