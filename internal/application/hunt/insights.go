package hunt

import (
	"context"
	"sort"
	"time"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
)

// Market condition labels derived from the observed drop share.
const (
	MarketBuyers   = "buyer's market"
	MarketBalanced = "balanced market"
	MarketSellers  = "seller's market"
)

// Drop-share thresholds for the market condition call.
const (
	buyersMarketDropShare  = 0.40
	sellersMarketDropShare = 0.15
)

// minMunicipalitySample is the smallest per-municipality listing count that
// qualifies for the best-value ranking; thinner samples stay in the stats
// but out of the recommendation.
const minMunicipalitySample = 3

// MunicipalityStats aggregates one municipality's market.
type MunicipalityStats struct {
	Municipality string  `json:"municipality"`
	Listings     int     `json:"listings"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// MarketInsights is the per-city market report.
type MarketInsights struct {
	City          string    `json:"city"`
	GeneratedAt   time.Time `json:"generated_at"`
	TotalListings int       `json:"total_listings"`

	ByMunicipality []MunicipalityStats `json:"by_municipality"`

	// BestValue lists the municipalities with the lowest average unit
	// price, cheapest first.
	BestValue []string `json:"best_value"`

	// DropShare is the fraction of open price histories with at least one
	// drop; Condition is the label derived from it.
	DropShare float64 `json:"drop_share"`
	Condition string  `json:"condition"`
}

// Insights builds the market report for one city from the active listings
// and the open price histories.
func (s *Service) Insights(ctx context.Context, city string, now time.Time) (*MarketInsights, error) {
	listings, err := s.listings.FindActiveByCity(ctx, city, s.cfg.ListingType)
	if err != nil {
		return nil, err
	}

	ins := &MarketInsights{
		City:          city,
		GeneratedAt:   now,
		TotalListings: len(listings),
	}

	type agg struct {
		count int
		sum   float64
		units int
	}
	byMuni := make(map[string]*agg)
	for _, l := range listings {
		a := byMuni[l.Municipality]
		if a == nil {
			a = &agg{}
			byMuni[l.Municipality] = a
		}
		a.count++
		if unit, ok := l.PricePerSqm(); ok {
			a.sum += unit
			a.units++
		}
	}

	for muni, a := range byMuni {
		st := MunicipalityStats{Municipality: muni, Listings: a.count}
		if a.units > 0 {
			st.AvgUnitPrice = a.sum / float64(a.units)
		}
		ins.ByMunicipality = append(ins.ByMunicipality, st)
	}
	sort.Slice(ins.ByMunicipality, func(i, j int) bool {
		return ins.ByMunicipality[i].Municipality < ins.ByMunicipality[j].Municipality
	})

	ins.BestValue = bestValue(ins.ByMunicipality)

	open, err := s.histories.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	ins.DropShare = dropShare(open)
	ins.Condition = marketCondition(ins.DropShare)

	return ins, nil
}

func bestValue(stats []MunicipalityStats) []string {
	eligible := make([]MunicipalityStats, 0, len(stats))
	for _, st := range stats {
		if st.Listings >= minMunicipalitySample && st.AvgUnitPrice > 0 {
			eligible = append(eligible, st)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].AvgUnitPrice != eligible[j].AvgUnitPrice {
			return eligible[i].AvgUnitPrice < eligible[j].AvgUnitPrice
		}
		return eligible[i].Municipality < eligible[j].Municipality
	})

	out := make([]string, 0, 3)
	for i := 0; i < len(eligible) && i < 3; i++ {
		out = append(out, eligible[i].Municipality)
	}
	return out
}

func dropShare(open []*tracking.PriceHistory) float64 {
	if len(open) == 0 {
		return 0
	}
	dropped := 0
	for _, h := range open {
		if h.Drops > 0 {
			dropped++
		}
	}
	return float64(dropped) / float64(len(open))
}

func marketCondition(share float64) string {
	switch {
	case share > buyersMarketDropShare:
		return MarketBuyers
	case share < sellersMarketDropShare:
		return MarketSellers
	default:
		return MarketBalanced
	}
}

//Personal.AI order the ending
