package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

func alertTypes(alerts []FraudAlert) []FraudAlertType {
	out := make([]FraudAlertType, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Type)
	}
	return out
}

func TestDetectUrgencyLanguage(t *testing.T) {
	d := NewFraudDetector(valuation.NewDefaultTierTable())

	alerts := d.DetectOne(&ltypes.Listing{
		ID:    "a",
		Title: "HITNO prodajem stan",
		Price: ltypes.EUR(120000),
		Area:  60,
		City:  "Beograd",
	})
	assert.Equal(t, []FraudAlertType{FraudUrgencyLanguage}, alertTypes(alerts))
}

func TestDetectUrgencyIgnoresTags(t *testing.T) {
	d := NewFraudDetector(valuation.NewDefaultTierTable())

	// Portals attach "hitno" as a category tag; only the seller's own
	// title wording counts as an urgency signal.
	alerts := d.DetectOne(&ltypes.Listing{
		ID:    "a",
		Title: "Dvosoban stan na Vračaru",
		Tags:  []string{"hitno", "uknjižen"},
		Price: ltypes.EUR(120000),
		Area:  60,
		City:  "Beograd",
	})
	assert.NotContains(t, alertTypes(alerts), FraudUrgencyLanguage)
}

func TestDetectBuzzwordDensity(t *testing.T) {
	d := NewFraudDetector(valuation.NewDefaultTierTable())

	t.Run("two buzzwords trigger", func(t *testing.T) {
		alerts := d.DetectOne(&ltypes.Listing{
			ID:    "a",
			Title: "Ekskluzivna ponuda, jedinstven stan",
			Price: ltypes.EUR(120000),
			Area:  60,
			City:  "Beograd",
		})
		assert.Contains(t, alertTypes(alerts), FraudBuzzwordDensity)
	})

	t.Run("one buzzword does not", func(t *testing.T) {
		alerts := d.DetectOne(&ltypes.Listing{
			ID:    "a",
			Title: "Jedinstven stan na odličnoj lokaciji",
			Price: ltypes.EUR(120000),
			Area:  60,
			City:  "Beograd",
		})
		assert.NotContains(t, alertTypes(alerts), FraudBuzzwordDensity)
	})
}

func TestDetectPriceBelowSanityFloor(t *testing.T) {
	d := NewFraudDetector(valuation.NewDefaultTierTable())

	t.Run("below the Beograd floor", func(t *testing.T) {
		alerts := d.DetectOne(&ltypes.Listing{
			ID:    "a",
			Title: "Stan",
			Price: ltypes.EUR(30000), // 500 EUR/m²
			Area:  60,
			City:  "Beograd",
		})
		assert.Equal(t, []FraudAlertType{FraudPriceBelowFloor}, alertTypes(alerts))
	})

	t.Run("city without a floor", func(t *testing.T) {
		alerts := d.DetectOne(&ltypes.Listing{
			ID:    "a",
			Title: "Stan",
			Price: ltypes.EUR(20000),
			Area:  60,
			City:  "Novi Pazar",
		})
		assert.Empty(t, alerts)
	})

	t.Run("zero area skips the check", func(t *testing.T) {
		alerts := d.DetectOne(&ltypes.Listing{
			ID:    "a",
			Title: "Stan",
			Price: ltypes.EUR(30000),
			City:  "Beograd",
		})
		assert.Empty(t, alerts)
	})
}

func TestHeuristicsAreIndependent(t *testing.T) {
	d := NewFraudDetector(valuation.NewDefaultTierTable())

	alerts := d.DetectOne(&ltypes.Listing{
		ID:    "a",
		Title: "HITNO! Lux, ekskluzivan stan",
		Price: ltypes.EUR(24000), // 400 EUR/m²
		Area:  60,
		City:  "Beograd",
	})

	require.Len(t, alerts, 3)
	assert.ElementsMatch(t,
		[]FraudAlertType{FraudUrgencyLanguage, FraudBuzzwordDensity, FraudPriceBelowFloor},
		alertTypes(alerts))
}

func TestDetectBatch(t *testing.T) {
	d := NewFraudDetector(valuation.NewDefaultTierTable())

	alerts := d.Detect([]*ltypes.Listing{
		{ID: "clean", Title: "Dvosoban stan", Price: ltypes.EUR(120000), Area: 60, City: "Beograd"},
		{ID: "urgent", Title: "Hitno prodajem", Price: ltypes.EUR(120000), Area: 60, City: "Beograd"},
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, ltypes.ID("urgent"), alerts[0].ListingID)
}

//Personal.AI order the ending
