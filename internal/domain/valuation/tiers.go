// Package valuation implements the engine's core: comparable selection,
// the multi-factor valuation model, confidence scoring, and investment
// rating.
package valuation

import (
	"strings"
	"time"
)

// Zone is one pricing tier inside a city.
type Zone struct {
	Name          string
	BaseUnitPrice float64
	Municipality  map[string]bool
}

// CityMarket holds the tier zones and fallback price of one city.
type CityMarket struct {
	Zones       []Zone
	DefaultUnit float64

	// SanityFloorUnit is the minimum believable EUR/m² for fraud checks;
	// zero means no floor.
	SanityFloorUnit float64

	// WinterMultiplier applies in December through February for
	// tourism-oriented markets; zero means no seasonal effect.
	WinterMultiplier float64
}

// TierTable maps cities to their static market data.  It is built once at
// startup and treated as immutable; components receive it by injection.
type TierTable struct {
	cities map[string]CityMarket
}

func munis(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[strings.ToLower(n)] = true
	}
	return m
}

// NewDefaultTierTable returns the built-in Serbian market table.
func NewDefaultTierTable() *TierTable {
	return &TierTable{cities: map[string]CityMarket{
		"beograd": {
			Zones: []Zone{
				{Name: "ultra-premium", BaseUnitPrice: 3500, Municipality: munis("Dedinje", "Senjak", "Topčidersko brdo")},
				{Name: "premium", BaseUnitPrice: 2800, Municipality: munis("Vračar", "Stari grad", "Savski venac")},
				{Name: "mid-high", BaseUnitPrice: 2300, Municipality: munis("Novi Beograd", "Zvezdara")},
				{Name: "mid", BaseUnitPrice: 1900, Municipality: munis("Voždovac", "Čukarica", "Zemun")},
				{Name: "affordable", BaseUnitPrice: 1500, Municipality: munis("Rakovica", "Palilula", "Grocka")},
			},
			DefaultUnit:     2000,
			SanityFloorUnit: 800,
		},
		"novi sad": {
			Zones: []Zone{
				{Name: "premium", BaseUnitPrice: 2000, Municipality: munis("Centar", "Stari grad", "Dunav")},
				{Name: "mid", BaseUnitPrice: 1600, Municipality: munis("Liman", "Grbavica", "Novo naselje")},
				{Name: "affordable", BaseUnitPrice: 1200, Municipality: munis("Detelinara", "Klisa", "Veternik")},
			},
			DefaultUnit: 1500,
		},
		"novi pazar": {
			DefaultUnit: 800,
		},
		"zlatibor": {
			Zones: []Zone{
				{Name: "centar", BaseUnitPrice: 2500, Municipality: munis("Centar")},
			},
			DefaultUnit:      1800,
			WinterMultiplier: 1.15,
		},
	}}
}

// BaseUnitPrice looks up the static EUR/m² for (city, municipality).
// The boolean is false when the city is not covered at all.
func (t *TierTable) BaseUnitPrice(city, municipality string) (float64, bool) {
	market, ok := t.cities[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return 0, false
	}
	mun := strings.ToLower(strings.TrimSpace(municipality))
	for _, zone := range market.Zones {
		if zone.Municipality[mun] {
			return zone.BaseUnitPrice, true
		}
	}
	return market.DefaultUnit, true
}

// SeasonalFactor returns the calendar multiplier for a city.  Only
// tourism-oriented markets carry one; everywhere else it is 1.0.
func (t *TierTable) SeasonalFactor(city string, month time.Month) float64 {
	market, ok := t.cities[strings.ToLower(strings.TrimSpace(city))]
	if !ok || market.WinterMultiplier == 0 {
		return 1.0
	}
	switch month {
	case time.December, time.January, time.February:
		return market.WinterMultiplier
	default:
		return 1.0
	}
}

// SanityFloorUnit returns the minimum believable EUR/m² for fraud detection.
// The boolean is false when the city carries no floor.
func (t *TierTable) SanityFloorUnit(city string) (float64, bool) {
	market, ok := t.cities[strings.ToLower(strings.TrimSpace(city))]
	if !ok || market.SanityFloorUnit == 0 {
		return 0, false
	}
	return market.SanityFloorUnit, true
}

// Covers reports whether the city has any tier data.
func (t *TierTable) Covers(city string) bool {
	_, ok := t.cities[strings.ToLower(strings.TrimSpace(city))]
	return ok
}

//Personal.AI order the ending
