package valuation

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	apperrors "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// Basis says where the base unit price came from.
type Basis string

const (
	// BasisComparables means the base price is a trimmed mean over the
	// comparable set.
	BasisComparables Basis = "comparables"

	// BasisTier means comparables were too sparse and the municipality
	// tier table supplied the base price.
	BasisTier Basis = "tier"
)

// InvestmentRating grades a listing's attractiveness on a bond-like scale.
type InvestmentRating string

const (
	RatingAAA InvestmentRating = "AAA"
	RatingAA  InvestmentRating = "AA"
	RatingA   InvestmentRating = "A"
	RatingB   InvestmentRating = "B"
	RatingC   InvestmentRating = "C"
)

// RatingScore maps a rating onto a 0-100 scale for threshold comparisons.
var RatingScore = map[InvestmentRating]int{
	RatingAAA: 100,
	RatingAA:  90,
	RatingA:   80,
	RatingB:   70,
	RatingC:   60,
}

// ScoreForRating returns the numeric value of a rating, 50 when unknown.
func ScoreForRating(r InvestmentRating) int {
	if s, ok := RatingScore[r]; ok {
		return s
	}
	return 50
}

// EstimateInput carries everything an estimate needs.  Comparables may be
// empty; the engine falls back to the tier table when they are too few.
type EstimateInput struct {
	Subject     *ltypes.Listing
	Comparables []*ltypes.Listing

	// SourceCount is the number of distinct scrape sources contributing to
	// the comparable set; multi-source corroboration raises confidence.
	SourceCount int

	Now time.Time
}

// Result is a completed valuation.
type Result struct {
	ListingID ltypes.ID `json:"listing_id"`

	BaseUnitPrice     float64  `json:"base_unit_price"`
	Basis             Basis    `json:"basis"`
	Factors           []Factor `json:"factors"`
	AdjustedUnitPrice float64  `json:"adjusted_unit_price"`

	EstimatedValue float64 `json:"estimated_value"`
	Confidence     int     `json:"confidence"`
	ComparableSize int     `json:"comparable_size"`

	// Discount is (estimate - asking) / estimate; nil when the asking
	// price is unknown or the estimate is non-positive.
	Discount *float64 `json:"discount,omitempty"`

	GoodDeal bool             `json:"good_deal"`
	Rating   InvestmentRating `json:"rating"`

	ComputedAt time.Time `json:"computed_at"`
}

// DiscountOrZero returns the discount fraction, 0 when unavailable.
func (r *Result) DiscountOrZero() float64 {
	if r == nil || r.Discount == nil {
		return 0
	}
	return *r.Discount
}

// Engine turns a subject listing plus comparables into a valuation Result.
type Engine struct {
	tiers             *TierTable
	minComparables    int
	discountThreshold float64
}

// NewEngine constructs an Engine.  minComparables below 1 is clamped to 1;
// discountThreshold is the good-deal cutoff (0.10 by convention).
func NewEngine(tiers *TierTable, minComparables int, discountThreshold float64) *Engine {
	if minComparables < 1 {
		minComparables = 1
	}
	return &Engine{
		tiers:             tiers,
		minComparables:    minComparables,
		discountThreshold: discountThreshold,
	}
}

// MinComparables reports how many usable comparables the engine needs
// before it prices from the comparable set instead of the tier table.
func (e *Engine) MinComparables() int {
	return e.minComparables
}

// Estimate values the subject.  It fails with VAL_002 when neither enough
// comparables nor tier coverage exist, and LST_002 when the subject lacks a
// positive area.
func (e *Engine) Estimate(in EstimateInput) (*Result, error) {
	subject := in.Subject
	if subject == nil {
		return nil, apperrors.InvalidParam("subject listing is required")
	}
	if subject.Area <= 0 {
		return nil, apperrors.MissingRequiredField("area")
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	base, basis, used, err := e.basePrice(subject, in.Comparables)
	if err != nil {
		return nil, err
	}

	factors := []Factor{
		FloorFactor(subject),
		ConditionFactor(subject),
		StructuralFactor(subject),
		AmenityFactor(subject),
		SeasonalFactor(e.tiers, subject, now),
	}

	adjusted := base
	for _, f := range factors {
		adjusted *= f.Value
	}

	res := &Result{
		ListingID:         subject.ID,
		BaseUnitPrice:     base,
		Basis:             basis,
		Factors:           factors,
		AdjustedUnitPrice: adjusted,
		EstimatedValue:    adjusted * subject.Area,
		ComparableSize:    used,
		ComputedAt:        now,
	}
	res.Confidence = e.confidence(subject, used, in.SourceCount)

	if asking, ok := subject.PricePerSqm(); ok && asking > 0 && res.EstimatedValue > 0 {
		d := (res.EstimatedValue - subject.Price.Amount) / res.EstimatedValue
		res.Discount = &d
		res.GoodDeal = d >= e.discountThreshold
	}
	res.Rating = e.rating(subject, res.DiscountOrZero())

	return res, nil
}

// basePrice picks the trimmed comparable mean when the set is large enough,
// otherwise falls back to the tier table.
func (e *Engine) basePrice(subject *ltypes.Listing, comps []*ltypes.Listing) (float64, Basis, int, error) {
	units := make([]float64, 0, len(comps))
	for _, c := range comps {
		if u, ok := c.PricePerSqm(); ok {
			units = append(units, u)
		}
	}

	if len(units) >= e.minComparables {
		return trimmedMean(units), BasisComparables, len(units), nil
	}

	if unit, ok := e.tiers.BaseUnitPrice(subject.City, subject.Municipality); ok {
		return unit, BasisTier, len(units), nil
	}

	if len(comps) > 0 || len(units) > 0 {
		return 0, "", 0, apperrors.InsufficientComparables(
			fmt.Sprintf("got %d usable comparables, need %d", len(units), e.minComparables))
	}
	return 0, "", 0, apperrors.EstimateUnavailable(
		fmt.Sprintf("no comparables and no tier coverage for city %q", subject.City))
}

// trimmedMean drops ceil(n/10) observations from each end of the sorted
// values before averaging; sets of one or two are averaged as-is.
func trimmedMean(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := 0, n
	if n > 2 {
		trim := int(math.Ceil(float64(n) / 10))
		if 2*trim < n {
			lo, hi = trim, n-trim
		}
	}

	var sum float64
	for _, v := range sorted[lo:hi] {
		sum += v
	}
	return sum / float64(hi-lo)
}

// confidence grades an estimate 0-100 from input completeness and the depth
// of the comparable evidence.
func (e *Engine) confidence(subject *ltypes.Listing, comparables, sources int) int {
	score := 50
	if subject.Area > 0 {
		score += 10
	}
	if subject.HasRooms() {
		score += 10
	}
	if subject.FloorKnown() {
		score += 5
	}
	if subject.Municipality != "" {
		score += 10
	}
	comp := 3 * comparables
	if comp > 15 {
		comp = 15
	}
	score += comp
	if sources > 1 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Location weight tables for the investment rating.  Premium Beograd
// municipalities provide the strongest capital-preservation case; Novi Pazar
// outranks its price tier on rental yield.
var (
	ratingBeogradPremium = map[string]bool{
		"vračar":       true,
		"vracar":       true,
		"stari grad":   true,
		"savski venac": true,
		"dedinje":      true,
		"senjak":       true,
	}
	ratingBeogradMid = map[string]bool{
		"novi beograd": true,
		"zvezdara":     true,
	}
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// rating combines discount, location and liquidity into a letter grade.
func (e *Engine) rating(subject *ltypes.Listing, discount float64) InvestmentRating {
	score := 0

	switch {
	case discount > 0.20:
		score += 40
	case discount > 0.10:
		score += 30
	case discount > 0.05:
		score += 20
	case discount > 0:
		score += 10
	}

	city := normalize(subject.City)
	muni := normalize(subject.Municipality)
	switch city {
	case "beograd":
		switch {
		case ratingBeogradPremium[muni]:
			score += 30
		case ratingBeogradMid[muni]:
			score += 25
		default:
			score += 20
		}
	case "novi sad":
		score += 20
	case "novi pazar":
		score += 25
	}

	switch {
	case subject.Area >= 40 && subject.Area <= 70:
		score += 20
	case subject.Area >= 30 && subject.Area <= 90:
		score += 15
	default:
		score += 5
	}

	switch {
	case score >= 80:
		return RatingAAA
	case score >= 65:
		return RatingAA
	case score >= 50:
		return RatingA
	case score >= 35:
		return RatingB
	default:
		return RatingC
	}
}

//Personal.AI order the ending
