// Package dedup groups listings that represent the same physical property
// across sources and raises heuristic fraud alerts.
package dedup

import (
	"sort"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// spreadThreshold flags a group as a price-discrepancy duplicate.
const spreadThreshold = 0.10

// anchorDiscount derives the negotiation anchor from the cheapest member.
const anchorDiscount = 0.95

// DuplicateGroup is a set of listings sharing one property identity.
type DuplicateGroup struct {
	Identity domlisting.PropertyIdentity `json:"identity"`
	Listings []*ltypes.Listing           `json:"listings"`

	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`

	// Spread is (max-min)/min; SpreadKnown is false when the cheapest
	// member has no positive price and the ratio is undefined.
	Spread      float64 `json:"spread"`
	SpreadKnown bool    `json:"spread_known"`

	// PriceDiscrepancy marks a spread above the 10% threshold;
	// RecommendedAnchor is then 95% of the cheapest asking price.
	PriceDiscrepancy  bool    `json:"price_discrepancy"`
	RecommendedAnchor float64 `json:"recommended_anchor,omitempty"`

	// IdentityCollision marks a group whose members carry distinct
	// external IDs from the same source: physically different units that
	// hashed to one identity. Such groups are flagged, not merged.
	IdentityCollision bool `json:"identity_collision"`
}

// Detector finds duplicate groups.  It requires the full batch: grouping is
// global across sources, so callers must not feed partial snapshots.
type Detector struct {
	identifier domlisting.Identifier
}

// NewDetector constructs a Detector; a nil identifier selects the default
// truncating one.
func NewDetector(identifier domlisting.Identifier) *Detector {
	if identifier == nil {
		identifier = domlisting.NewTruncatingIdentifier()
	}
	return &Detector{identifier: identifier}
}

// FindDuplicates groups the batch by property identity and returns every
// group with more than one member, ordered by identity for deterministic
// reports.  Group members are ordered by listing ID.
func (d *Detector) FindDuplicates(listings []*ltypes.Listing) []*DuplicateGroup {
	byIdentity := make(map[domlisting.PropertyIdentity][]*ltypes.Listing)
	for _, l := range listings {
		id := d.identifier.Identity(l)
		byIdentity[id] = append(byIdentity[id], l)
	}

	groups := make([]*DuplicateGroup, 0)
	for identity, members := range byIdentity {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
		groups = append(groups, buildGroup(identity, members))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Identity < groups[j].Identity })
	return groups
}

func buildGroup(identity domlisting.PropertyIdentity, members []*ltypes.Listing) *DuplicateGroup {
	g := &DuplicateGroup{Identity: identity, Listings: members}

	for _, m := range members {
		p := m.Price.Amount
		if g.MinPrice == 0 || (p > 0 && p < g.MinPrice) {
			g.MinPrice = p
		}
		if p > g.MaxPrice {
			g.MaxPrice = p
		}
	}

	if g.MinPrice > 0 {
		g.Spread = (g.MaxPrice - g.MinPrice) / g.MinPrice
		g.SpreadKnown = true
		if g.Spread > spreadThreshold {
			g.PriceDiscrepancy = true
			g.RecommendedAnchor = g.MinPrice * anchorDiscount
		}
	}

	g.IdentityCollision = hasCollision(members)
	return g
}

// hasCollision reports whether two members from the same source carry
// different external IDs, meaning the source itself considers them distinct
// advertisements.
func hasCollision(members []*ltypes.Listing) bool {
	seen := make(map[ltypes.Source]string, len(members))
	for _, m := range members {
		if m.ExternalID == "" {
			continue
		}
		if prev, ok := seen[m.Source]; ok && prev != m.ExternalID {
			return true
		}
		seen[m.Source] = m.ExternalID
	}
	return false
}

//Personal.AI order the ending
