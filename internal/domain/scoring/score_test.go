package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

func resultWithDiscount(d float64, comparables int) *valuation.Result {
	return &valuation.Result{Discount: &d, ComparableSize: comparables}
}

func TestDiscountTerm(t *testing.T) {
	tests := []struct {
		discount float64
		want     float64
	}{
		{-0.05, 0},
		{0, 0},
		{0.05, 10},
		{0.10, 20},
		{0.20, 40},
		{0.35, 40}, // capped
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, discountTerm(tt.discount), 1e-9, "discount %v", tt.discount)
	}
}

func TestEvidenceTerm(t *testing.T) {
	assert.InDelta(t, 0, evidenceTerm(0), 1e-9)
	assert.InDelta(t, 6, evidenceTerm(3), 1e-9)
	assert.InDelta(t, 20, evidenceTerm(10), 1e-9)
	assert.InDelta(t, 20, evidenceTerm(50), 1e-9) // capped
}

func TestLocationTerm(t *testing.T) {
	tests := []struct {
		city, municipality string
		want               float64
	}{
		{"Beograd", "Vračar", 20},
		{"Beograd", "Stari grad", 20},
		{"Beograd", "Savski venac", 20},
		{"Beograd", "Novi Beograd", 15},
		{"Beograd", "Voždovac", 15},
		{"Beograd", "Rakovica", 10},
		{"Beograd", "", 10},
		{"Novi Sad", "Centar", 15},
		{"Subotica", "", 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, locationTerm(tt.city, tt.municipality), 1e-9,
			"%s/%s", tt.city, tt.municipality)
	}
}

func TestLiquidityTerm(t *testing.T) {
	tests := []struct {
		area float64
		want float64
	}{
		{55, 20},
		{40, 20},
		{70, 20},
		{35, 15},
		{80, 15},
		{25, 10},
		{100, 10},
		{150, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, liquidityTerm(tt.area), 1e-9, "area %v", tt.area)
	}
}

func TestScoreBreakdownSumsTerms(t *testing.T) {
	s := NewScorer()
	l := &ltypes.Listing{City: "Beograd", Municipality: "Vračar", Area: 55}

	b := s.Score(l, resultWithDiscount(0.15, 5), false)
	assert.InDelta(t, 30, b.Discount, 1e-9)
	assert.InDelta(t, 10, b.Evidence, 1e-9)
	assert.InDelta(t, 20, b.Location, 1e-9)
	assert.InDelta(t, 20, b.Liquidity, 1e-9)
	assert.InDelta(t, 80, b.Total, 1e-9)
	assert.False(t, b.Boosted)
}

func TestScoreDesperationBoost(t *testing.T) {
	s := NewScorer()
	l := &ltypes.Listing{City: "Novi Sad", Area: 55}

	plain := s.Score(l, resultWithDiscount(0.10, 3), false)
	boosted := s.Score(l, resultWithDiscount(0.10, 3), true)

	assert.InDelta(t, 61, plain.Total, 1e-9) // 20+6+15+20
	assert.True(t, boosted.Boosted)
	assert.InDelta(t, 91.5, boosted.Total, 1e-9)
}

func TestScoreBoostCapsAtHundred(t *testing.T) {
	s := NewScorer()
	l := &ltypes.Listing{City: "Beograd", Municipality: "Stari grad", Area: 60}

	b := s.Score(l, resultWithDiscount(0.30, 15), true)
	assert.InDelta(t, 100, b.Total, 1e-9)
}

func TestScoreWithoutDiscount(t *testing.T) {
	s := NewScorer()
	l := &ltypes.Listing{City: "Beograd", Area: 55}

	b := s.Score(l, &valuation.Result{}, false)
	assert.InDelta(t, 0, b.Discount, 1e-9)
	assert.InDelta(t, 30, b.Total, 1e-9) // location 10 + liquidity 20
}

//Personal.AI order the ending
