// Package listing defines the shared value types for normalized real-estate
// listings.  The engine consumes listings already parsed into typed fields by
// the normalization boundary; raw price strings, floor notation ("PR", "VPR",
// "SUT") and currency parsing never reach these types.
package listing

import (
	"strings"
	"time"

	"github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
)

// ID is a string alias for a listing identifier.
type ID string

// Source identifies the site a listing was observed on.
type Source string

const (
	SourceHaloOglasi  Source = "halooglasi"
	SourceNekretnine  Source = "nekretnine"
	SourceCityExpert  Source = "cityexpert"
	SourceFourZidovi  Source = "4zida"
	SourceSasoMange   Source = "sasomange"
	SourceOther       Source = "other"
)

// ListingType distinguishes sale from rental advertisements.
type ListingType string

const (
	TypeSale ListingType = "sale"
	TypeRent ListingType = "rent"
)

// IsValid checks if the ListingType is supported.
func (t ListingType) IsValid() bool {
	return t == TypeSale || t == TypeRent
}

// PropertyType categorizes the advertised property.
type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
	PropertyOther      PropertyType = "other"
)

// IsValid checks if the PropertyType is supported.
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyApartment, PropertyHouse, PropertyLand, PropertyCommercial, PropertyOther:
		return true
	default:
		return false
	}
}

// Currency is an ISO 4217 currency code.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyRSD Currency = "RSD"
)

// Money pairs an amount with its currency.  The engine operates in EUR;
// conversion happens at the normalization boundary.
type Money struct {
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

// EUR constructs a Money value in euros.
func EUR(amount float64) Money {
	return Money{Amount: amount, Currency: CurrencyEUR}
}

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool {
	return m.Amount > 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing record
// ─────────────────────────────────────────────────────────────────────────────

// Listing is the normalized record the engine operates on.  Price and Area
// must be present and strictly positive for the listing to be valuable to the
// engine; every other field is optional and degrades confidence, not
// correctness.
type Listing struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`

	Price Money `json:"price"`

	City         string `json:"city"`
	Municipality string `json:"municipality,omitempty"`
	Street       string `json:"street,omitempty"`

	// Area in square meters; strictly positive for valuable listings.
	Area float64 `json:"area"`

	// Rooms allows half-steps (1.5, 2.5); zero means unknown.
	Rooms float64 `json:"rooms,omitempty"`

	// Floor is signed; negative values are below ground.  Nil means unknown.
	Floor *int `json:"floor,omitempty"`

	// TotalFloors is the building height; nil means unknown, in which case
	// top-floor adjustments are skipped.
	TotalFloors *int `json:"total_floors,omitempty"`

	// Tags carries free-text feature keywords from the source ad
	// ("renoviran", "cg", "lift", "garaža", ...), lowercased by the
	// normalization boundary.
	Tags []string `json:"tags,omitempty"`

	ListingType  ListingType  `json:"listing_type"`
	PropertyType PropertyType `json:"property_type"`

	Source     Source `json:"source"`
	ExternalID string `json:"external_id,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`

	Active bool `json:"active"`
}

// RequireValuable validates the hard invariant of the engine: a listing with
// a non-positive price or area cannot be valued and must be skipped.
func (l *Listing) RequireValuable() error {
	if !l.Price.IsPositive() {
		return errors.MissingRequiredField("listing has no positive asking price").
			WithDetail("id=" + string(l.ID))
	}
	if l.Area <= 0 {
		return errors.MissingRequiredField("listing has no positive area").
			WithDetail("id=" + string(l.ID))
	}
	return nil
}

// PricePerSqm returns the asking unit price.  The boolean is false when the
// value is undefined (zero area or missing price).
func (l *Listing) PricePerSqm() (float64, bool) {
	if l.Area <= 0 || !l.Price.IsPositive() {
		return 0, false
	}
	return l.Price.Amount / l.Area, true
}

// FloorKnown reports whether the floor field is populated.
func (l *Listing) FloorKnown() bool {
	return l.Floor != nil
}

// HasRooms reports whether a room count is known.
func (l *Listing) HasRooms() bool {
	return l.Rooms > 0
}

// SearchText returns the lowercased concatenation of title and tags, the
// haystack keyword-based adjustment factors match against.
func (l *Listing) SearchText() string {
	parts := make([]string, 0, len(l.Tags)+1)
	parts = append(parts, strings.ToLower(l.Title))
	for _, t := range l.Tags {
		parts = append(parts, strings.ToLower(t))
	}
	return strings.Join(parts, " ")
}

// HasKeyword reports whether any of the given keywords appears in the
// listing's search text.
func (l *Listing) HasKeyword(keywords ...string) bool {
	text := l.SearchText()
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IntPtr is a convenience for building optional floor fields in literals and
// tests.
func IntPtr(v int) *int {
	return &v
}

//Personal.AI order the ending
