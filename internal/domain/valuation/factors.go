package valuation

import (
	"time"

	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// Factor is one named multiplicative adjustment applied to the base unit
// price.  The full ordered list is returned with every Result so callers can
// explain an estimate.
type Factor struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Floor factor constants.
const (
	floorBasement        = 0.70
	floorGround          = 0.85
	floorFirst           = 1.05
	floorTopWithElevator = 0.95
	floorTopNoElevator   = 0.85
	floorMiddle          = 1.00
)

// shortBuildingFloors is the height at or below which a top floor is treated
// as elevator-equivalent (walk-up is acceptable).
const shortBuildingFloors = 3

// FloorFactor implements the floor adjustment.  When total_floors is unknown
// the top-floor comparisons are skipped and anything above the first floor is
// treated as middle.
func FloorFactor(l *ltypes.Listing) Factor {
	f := Factor{Name: "floor", Value: floorMiddle}
	if l.Floor == nil {
		return f
	}
	floor := *l.Floor
	switch {
	case floor < 0:
		f.Value = floorBasement
	case floor == 0:
		f.Value = floorGround
	case floor == 1:
		f.Value = floorFirst
	case l.TotalFloors != nil && floor == *l.TotalFloors:
		if l.HasKeyword("lift", "elevator") || *l.TotalFloors <= shortBuildingFloors {
			f.Value = floorTopWithElevator
		} else {
			f.Value = floorTopNoElevator
		}
	}
	return f
}

// Condition factor constants and vocabulary.  Rules are checked in a fixed
// priority order; the first match wins.
var conditionRules = []struct {
	name     string
	keywords []string
	value    float64
}{
	{"lux", []string{"lux", "luksuz"}, 1.20},
	{"new-construction", []string{"novogradnja", "useljiv", "new build"}, 1.15},
	{"renovated", []string{"renoviran", "adaptiran", "renovated"}, 1.10},
	{"needs-work", []string{"za renoviranje", "potrebno renoviranje", "hitno"}, 0.80},
}

const conditionDefault = 0.95

// ConditionFactor derives property condition from keyword matching against
// the title and feature tags.
func ConditionFactor(l *ltypes.Listing) Factor {
	for _, rule := range conditionRules {
		if l.HasKeyword(rule.keywords...) {
			return Factor{Name: "condition:" + rule.name, Value: rule.value}
		}
	}
	return Factor{Name: "condition:default", Value: conditionDefault}
}

// expectedAreaRanges maps a room count to the plausible m² band of a typical
// Serbian apartment with that structure.
var expectedAreaRanges = map[float64][2]float64{
	0.5: {20, 35},
	1.0: {30, 50},
	1.5: {35, 55},
	2.0: {45, 70},
	2.5: {55, 80},
	3.0: {65, 100},
	3.5: {75, 120},
	4.0: {85, 150},
}

const (
	structuralTooSmall = 0.90
	structuralTooLarge = 0.95
	structuralIdeal    = 1.05
	structuralOversize = 0.90
)

// StructuralFactor checks room/area plausibility.  Apartments that are too
// small for their declared structure take a stronger penalty than oversized
// ones; the most liquid structures (1, 2, 3 rooms) get a small bonus and
// 4+ room units a penalty.
func StructuralFactor(l *ltypes.Listing) Factor {
	f := Factor{Name: "structural", Value: 1.0}
	if !l.HasRooms() {
		return f
	}
	if band, ok := expectedAreaRanges[l.Rooms]; ok {
		if l.Area < band[0] {
			f.Value = structuralTooSmall
			return f
		}
		if l.Area > band[1] {
			f.Value = structuralTooLarge
			return f
		}
	}
	switch {
	case l.Rooms == 1.0 || l.Rooms == 2.0 || l.Rooms == 3.0:
		f.Value = structuralIdeal
	case l.Rooms >= 4.0:
		f.Value = structuralOversize
	}
	return f
}

// Amenity multipliers.  Each detected amenity contributes independently;
// absence contributes nothing.
var amenityRules = []struct {
	name     string
	keywords []string
	value    float64
}{
	{"central-heating", []string{"cg", "centralno"}, 1.05},
	{"terrace", []string{"terasa", "terrace"}, 1.05},
	{"balcony", []string{"balkon", "lodja", "balcony"}, 1.02},
	{"elevator", []string{"lift", "elevator"}, 1.05},
	{"storage", []string{"podrum", "ostava", "storage"}, 1.03},
	{"security", []string{"obezbeđenje", "video nadzor", "security"}, 1.05},
}

const (
	amenityGarage  = 1.10
	amenityParking = 1.05
)

// AmenityFactor multiplies the independent amenity bonuses.  Garage and
// open parking are mutually exclusive; a garage implies parking.
func AmenityFactor(l *ltypes.Listing) Factor {
	value := 1.0
	if l.HasKeyword("garaž", "garaza", "garage") {
		value *= amenityGarage
	} else if l.HasKeyword("parking") {
		value *= amenityParking
	}
	for _, rule := range amenityRules {
		if l.HasKeyword(rule.keywords...) {
			value *= rule.value
		}
	}
	return Factor{Name: "amenity", Value: value}
}

// SeasonalFactor wraps the tier table's calendar multiplier as a named
// adjustment.
func SeasonalFactor(tiers *TierTable, l *ltypes.Listing, now time.Time) Factor {
	return Factor{Name: "seasonal", Value: tiers.SeasonalFactor(l.City, now.Month())}
}

//Personal.AI order the ending
