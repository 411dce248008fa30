package dedup

import (
	"fmt"
	"strings"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// FraudAlertType names one triggered heuristic.
type FraudAlertType string

const (
	FraudUrgencyLanguage   FraudAlertType = "URGENCY_LANGUAGE"
	FraudBuzzwordDensity   FraudAlertType = "BUZZWORD_DENSITY"
	FraudPriceBelowFloor   FraudAlertType = "PRICE_BELOW_FLOOR"
	FraudIdentityCollision FraudAlertType = "IDENTITY_COLLISION"
)

// FraudAlert is one heuristic warning attached to a listing.  A listing may
// carry several.
type FraudAlert struct {
	ListingID ltypes.ID      `json:"listing_id"`
	Type      FraudAlertType `json:"type"`
	Detail    string         `json:"detail"`
}

// buzzwords is the promotional vocabulary; matching two or more in one
// listing trips the density heuristic.
var buzzwords = []string{"lux", "ekskluziv", "jedinstven", "neponovljiv", "specijal"}

const buzzwordThreshold = 2

// FraudDetector runs the per-listing heuristics.  The heuristics are
// independent and non-exclusive.
type FraudDetector struct {
	tiers *valuation.TierTable
}

// NewFraudDetector constructs a FraudDetector; the tier table supplies the
// per-city price sanity floors.
func NewFraudDetector(tiers *valuation.TierTable) *FraudDetector {
	return &FraudDetector{tiers: tiers}
}

// Detect runs every heuristic over the batch and returns the triggered
// alerts in batch order.
func (d *FraudDetector) Detect(listings []*ltypes.Listing) []FraudAlert {
	alerts := make([]FraudAlert, 0)
	for _, l := range listings {
		alerts = append(alerts, d.DetectOne(l)...)
	}
	return alerts
}

// DetectOne checks a single listing.
func (d *FraudDetector) DetectOne(l *ltypes.Listing) []FraudAlert {
	var alerts []FraudAlert

	// Only the title counts; "hitno" in portal tags is routine metadata
	// rather than seller language.
	if strings.Contains(strings.ToLower(l.Title), "hitno") {
		alerts = append(alerts, FraudAlert{
			ListingID: l.ID,
			Type:      FraudUrgencyLanguage,
			Detail:    "urgency language in title",
		})
	}

	if n := d.buzzwordCount(l); n >= buzzwordThreshold {
		alerts = append(alerts, FraudAlert{
			ListingID: l.ID,
			Type:      FraudBuzzwordDensity,
			Detail:    fmt.Sprintf("%d promotional buzzwords", n),
		})
	}

	if unit, ok := l.PricePerSqm(); ok {
		if floor, has := d.tiers.SanityFloorUnit(l.City); has && unit < floor {
			alerts = append(alerts, FraudAlert{
				ListingID: l.ID,
				Type:      FraudPriceBelowFloor,
				Detail:    fmt.Sprintf("%.0f EUR/m² below the %.0f floor for %s", unit, floor, l.City),
			})
		}
	}

	return alerts
}

// CollisionAlerts converts flagged duplicate groups into identity-collision
// alerts, one per member listing.
func CollisionAlerts(groups []*DuplicateGroup) []FraudAlert {
	var alerts []FraudAlert
	for _, g := range groups {
		if !g.IdentityCollision {
			continue
		}
		for _, m := range g.Listings {
			alerts = append(alerts, FraudAlert{
				ListingID: m.ID,
				Type:      FraudIdentityCollision,
				Detail:    "distinct same-source advertisements share identity " + string(g.Identity),
			})
		}
	}
	return alerts
}

func (d *FraudDetector) buzzwordCount(l *ltypes.Listing) int {
	n := 0
	for _, w := range buzzwords {
		if l.HasKeyword(w) {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
