// Package scoring turns valuations into bounded opportunity scores, ranked
// and annotated reports the outer layers publish.
package scoring

import (
	"strings"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// Per-term caps.  Each sub-term is capped before summation, so an unboosted
// total never exceeds 100.
const (
	discountTermCap  = 40.0
	evidenceTermCap  = 20.0
	locationTermCap  = 20.0
	liquidityTermCap = 20.0

	// desperationBoost multiplies the total when the tracker independently
	// flags the seller as desperate.
	desperationBoost = 1.5
	maxScore         = 100.0
)

// Location term tiers.  Scoring uses coarser buckets than the valuation tier
// table: it grades resale attractiveness, not price level.
var (
	scoreBeogradPremium = map[string]bool{
		"vračar":       true,
		"vracar":       true,
		"stari grad":   true,
		"savski venac": true,
	}
	scoreBeogradMid = map[string]bool{
		"novi beograd": true,
		"zvezdara":     true,
		"voždovac":     true,
		"vozdovac":     true,
	}
)

// ScoreBreakdown itemizes every contribution to an opportunity score.  Each
// term is individually capped; Total is the boosted, clipped sum.
type ScoreBreakdown struct {
	Discount  float64 `json:"discount"`
	Evidence  float64 `json:"evidence"`
	Location  float64 `json:"location"`
	Liquidity float64 `json:"liquidity"`

	// Boosted is set when the desperation multiplier was applied.
	Boosted bool    `json:"boosted"`
	Total   float64 `json:"total"`
}

// Scorer computes deal scores.  It is stateless and safe for concurrent use.
type Scorer struct{}

// NewScorer constructs a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score grades an opportunity 0-100.  The discount is the dominant term;
// desperate sellers earn a multiplicative boost capped at 100.
func (s *Scorer) Score(l *ltypes.Listing, v *valuation.Result, desperate bool) ScoreBreakdown {
	b := ScoreBreakdown{
		Discount:  discountTerm(v.DiscountOrZero()),
		Evidence:  evidenceTerm(v.ComparableSize),
		Location:  locationTerm(l.City, l.Municipality),
		Liquidity: liquidityTerm(l.Area),
	}
	b.Total = b.Discount + b.Evidence + b.Location + b.Liquidity
	if desperate {
		b.Boosted = true
		b.Total *= desperationBoost
	}
	if b.Total > maxScore {
		b.Total = maxScore
	}
	return b
}

func discountTerm(discount float64) float64 {
	if discount <= 0 {
		return 0
	}
	t := discount * 200
	if t > discountTermCap {
		return discountTermCap
	}
	return t
}

func evidenceTerm(comparables int) float64 {
	t := float64(comparables) * 2
	if t > evidenceTermCap {
		return evidenceTermCap
	}
	return t
}

func locationTerm(city, municipality string) float64 {
	muni := strings.ToLower(strings.TrimSpace(municipality))
	switch strings.ToLower(strings.TrimSpace(city)) {
	case "beograd":
		switch {
		case scoreBeogradPremium[muni]:
			return locationTermCap
		case scoreBeogradMid[muni]:
			return 15
		default:
			return 10
		}
	case "novi sad":
		return 15
	default:
		return 5
	}
}

func liquidityTerm(area float64) float64 {
	switch {
	case area >= 40 && area <= 70:
		return liquidityTermCap
	case (area >= 30 && area < 40) || (area > 70 && area <= 90):
		return 15
	case area < 30 || (area > 90 && area <= 120):
		return 10
	default:
		return 5
	}
}

//Personal.AI order the ending
