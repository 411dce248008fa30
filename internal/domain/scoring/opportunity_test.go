package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

func opportunityWith(id string, score, discount float64) *Opportunity {
	return &Opportunity{
		Listing:   &ltypes.Listing{ID: ltypes.ID(id)},
		Valuation: &valuation.Result{Discount: &discount},
		Breakdown: ScoreBreakdown{Total: score},
	}
}

func TestBuildOpportunityAlerts(t *testing.T) {
	t.Run("high discount", func(t *testing.T) {
		o := BuildOpportunity(
			&ltypes.Listing{ID: "a", Title: "Dvosoban stan"},
			resultWithDiscount(0.25, 5), ScoreBreakdown{}, false, false)
		assert.Equal(t, []Alert{AlertHighDiscount}, o.Alerts)
	})

	t.Run("urgent sale keyword", func(t *testing.T) {
		o := BuildOpportunity(
			&ltypes.Listing{ID: "a", Title: "HITNO prodajem stan"},
			resultWithDiscount(0.05, 5), ScoreBreakdown{}, false, false)
		assert.Equal(t, []Alert{AlertUrgentSale}, o.Alerts)
	})

	t.Run("tracker driven alerts", func(t *testing.T) {
		o := BuildOpportunity(
			&ltypes.Listing{ID: "a", Title: "Stan"},
			resultWithDiscount(0.05, 5), ScoreBreakdown{}, true, true)
		assert.Equal(t, []Alert{AlertPriceDrop, AlertDesperateSeller}, o.Alerts)
	})

	t.Run("no alerts", func(t *testing.T) {
		o := BuildOpportunity(
			&ltypes.Listing{ID: "a", Title: "Stan"},
			resultWithDiscount(0.05, 5), ScoreBreakdown{}, false, false)
		assert.Empty(t, o.Alerts)
	})
}

func TestBuildOpportunityRentEconomics(t *testing.T) {
	l := &ltypes.Listing{ID: "a", Price: ltypes.EUR(100000)}
	v := &valuation.Result{EstimatedValue: 120000}

	o := BuildOpportunity(l, v, ScoreBreakdown{}, false, false)

	assert.InDelta(t, 480, o.EstimatedMonthlyRent, 1e-9)
	// 480 * 12 / 100000 = 5.76% gross yearly yield.
	assert.InDelta(t, 0.0576, o.GrossYearlyYield, 1e-9)
}

func TestCriteriaMeets(t *testing.T) {
	base := func() *Opportunity {
		return &Opportunity{
			Listing:   &ltypes.Listing{ID: "a", Price: ltypes.EUR(150000), Area: 60},
			Valuation: resultWithDiscount(0.12, 5),
		}
	}
	t.Run("all disabled passes", func(t *testing.T) {
		assert.True(t, Criteria{}.Meets(base()))
	})
	t.Run("max price", func(t *testing.T) {
		assert.False(t, Criteria{MaxPrice: 100000}.Meets(base()))
		assert.True(t, Criteria{MaxPrice: 200000}.Meets(base()))
	})
	t.Run("area bounds", func(t *testing.T) {
		assert.False(t, Criteria{MinArea: 70}.Meets(base()))
		assert.False(t, Criteria{MaxArea: 50}.Meets(base()))
		assert.True(t, Criteria{MinArea: 40, MaxArea: 80}.Meets(base()))
	})
	t.Run("min discount", func(t *testing.T) {
		assert.False(t, Criteria{MinDiscount: 0.20}.Meets(base()))
		assert.True(t, Criteria{MinDiscount: 0.10}.Meets(base()))
	})
	t.Run("min rating", func(t *testing.T) {
		o := base()
		o.Valuation.Rating = valuation.RatingA
		assert.False(t, Criteria{MinRating: valuation.RatingAA}.Meets(o))
		assert.True(t, Criteria{MinRating: valuation.RatingB}.Meets(o))
	})
}

func TestCriteriaFilter(t *testing.T) {
	cheap := &Opportunity{
		Listing:   &ltypes.Listing{ID: "cheap", Price: ltypes.EUR(80000), Area: 55},
		Valuation: resultWithDiscount(0.15, 5),
	}
	pricey := &Opportunity{
		Listing:   &ltypes.Listing{ID: "pricey", Price: ltypes.EUR(300000), Area: 55},
		Valuation: resultWithDiscount(0.15, 5),
	}

	out := Criteria{MaxPrice: 150000}.Filter([]*Opportunity{cheap, pricey})
	require.Len(t, out, 1)
	assert.Equal(t, ltypes.ID("cheap"), out[0].Listing.ID)
}

func TestRankOpportunities(t *testing.T) {
	a := opportunityWith("a", 70, 0.10)
	b := opportunityWith("b", 90, 0.20)
	c := opportunityWith("c", 70, 0.15)

	ranked := RankOpportunities([]*Opportunity{a, b, c})

	require.Len(t, ranked, 3)
	assert.Equal(t, ltypes.ID("b"), ranked[0].Listing.ID)
	// Equal scores break by higher discount.
	assert.Equal(t, ltypes.ID("c"), ranked[1].Listing.ID)
	assert.Equal(t, ltypes.ID("a"), ranked[2].Listing.ID)

	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankOpportunitiesTieBreaksByID(t *testing.T) {
	x := opportunityWith("x", 50, 0.10)
	y := opportunityWith("y", 50, 0.10)

	ranked := RankOpportunities([]*Opportunity{y, x})
	assert.Equal(t, ltypes.ID("x"), ranked[0].Listing.ID)
	assert.Equal(t, ltypes.ID("y"), ranked[1].Listing.ID)
}

func TestTop(t *testing.T) {
	opps := []*Opportunity{
		opportunityWith("a", 90, 0.2),
		opportunityWith("b", 80, 0.1),
		opportunityWith("c", 70, 0.1),
	}
	assert.Len(t, Top(opps, 2), 2)
	assert.Len(t, Top(opps, 0), 3)
	assert.Len(t, Top(opps, 10), 3)
}

//Personal.AI order the ending
