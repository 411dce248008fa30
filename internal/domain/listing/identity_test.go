package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

func TestTruncatingIdentifier_SameUnitAcrossSources(t *testing.T) {
	id := NewTruncatingIdentifier()

	a := &ltypes.Listing{
		ID: "halo-1", Source: ltypes.SourceHaloOglasi,
		Title: "Novi Beograd, blok 21, odličan dvosoban",
		City:  "Beograd", Municipality: "Novi Beograd",
		Area: 60, Rooms: 2.0,
		Price: ltypes.EUR(145000),
	}
	b := &ltypes.Listing{
		ID: "4z-99", Source: ltypes.SourceFourZidovi,
		Title: "Novi Beograd, blok 21, odličan dvosoban stan hitno",
		City:  "beograd", Municipality: "novi beograd",
		Area: 60, Rooms: 2.0,
		Price: ltypes.EUR(129000),
	}

	// Titles share the first 30 characters; case differences are normalized.
	assert.Equal(t, id.Identity(a), id.Identity(b))
}

func TestTruncatingIdentifier_DifferentUnits(t *testing.T) {
	id := NewTruncatingIdentifier()

	base := ltypes.Listing{
		Title: "Vračar, Njegoševa, svetao stan",
		City:  "Beograd", Municipality: "Vračar",
		Area: 65, Rooms: 2.5,
	}

	other := base
	other.Area = 66
	assert.NotEqual(t, id.Identity(&base), id.Identity(&other), "area participates in identity")

	other = base
	other.Rooms = 3.0
	assert.NotEqual(t, id.Identity(&base), id.Identity(&other), "rooms participate in identity")

	other = base
	other.Municipality = "Zvezdara"
	assert.NotEqual(t, id.Identity(&base), id.Identity(&other), "municipality participates in identity")
}

func TestTruncatingIdentifier_TitleTruncation(t *testing.T) {
	id := NewTruncatingIdentifier()

	long := &ltypes.Listing{
		Title: strings.Repeat("a", 30) + " razlika posle granice",
		City:  "Beograd", Area: 50, Rooms: 2,
	}
	longer := &ltypes.Listing{
		Title: strings.Repeat("a", 30) + " potpuno drugačiji nastavak",
		City:  "Beograd", Area: 50, Rooms: 2,
	}
	assert.Equal(t, id.Identity(long), id.Identity(longer),
		"characters beyond the prefix length must not affect identity")

	short := &ltypes.Listing{Title: "aaa", City: "Beograd", Area: 50, Rooms: 2}
	assert.NotEqual(t, id.Identity(long), id.Identity(short))
}

func TestTruncatingIdentifier_HandlesMultibyteTitles(t *testing.T) {
	id := TruncatingIdentifier{TitlePrefixLen: 5}
	l := &ltypes.Listing{Title: "čćžšđčćžšđčćžšđ", City: "Niš", Area: 44, Rooms: 1.5}
	assert.NotPanics(t, func() { id.Identity(l) })
}

//Personal.AI order the ending
