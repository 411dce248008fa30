// Package listing holds the listing aggregate's domain services: property
// identity computation and the persistence contract the engine consumes.
package listing

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// PropertyIdentity is a derived, stable key intended to represent the same
// physical unit across listings, sources, and time.  It is not guaranteed
// collision-free; the dedup detector flags suspected collisions instead of
// silently merging them.
type PropertyIdentity string

// Identifier computes the PropertyIdentity of a listing.  The matching
// strategy sits behind this interface so it can evolve (exact truncation
// today, fuzzy matching later) without touching callers.
type Identifier interface {
	Identity(l *ltypes.Listing) PropertyIdentity
}

// DefaultTitlePrefixLen is the number of title characters that participate in
// the identity key.
const DefaultTitlePrefixLen = 30

// TruncatingIdentifier derives identity from the md5 of
// area|rooms|city|municipality|title-prefix.  Two listings for the same unit
// re-posted across sources normally differ only in ID and source, so this
// small attribute set links them reliably on Serbian portals.
type TruncatingIdentifier struct {
	TitlePrefixLen int
}

// NewTruncatingIdentifier returns an Identifier with the default title prefix
// length.
func NewTruncatingIdentifier() *TruncatingIdentifier {
	return &TruncatingIdentifier{TitlePrefixLen: DefaultTitlePrefixLen}
}

// Identity implements Identifier.
func (t *TruncatingIdentifier) Identity(l *ltypes.Listing) PropertyIdentity {
	prefixLen := t.TitlePrefixLen
	if prefixLen <= 0 {
		prefixLen = DefaultTitlePrefixLen
	}

	title := strings.ToLower(strings.TrimSpace(l.Title))
	if runes := []rune(title); len(runes) > prefixLen {
		title = string(runes[:prefixLen])
	}

	raw := fmt.Sprintf("%.1f|%.1f|%s|%s|%s",
		l.Area,
		l.Rooms,
		strings.ToLower(strings.TrimSpace(l.City)),
		strings.ToLower(strings.TrimSpace(l.Municipality)),
		title,
	)

	sum := md5.Sum([]byte(raw))
	return PropertyIdentity(hex.EncodeToString(sum[:]))
}

//Personal.AI order the ending
