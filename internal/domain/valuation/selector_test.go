package valuation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// queryCapturingRepo records the ComparableQuery the selector builds.
type queryCapturingRepo struct {
	domlisting.Repository

	lastQuery domlisting.ComparableQuery
	result    []*ltypes.Listing
	err       error
}

func (r *queryCapturingRepo) FindComparables(_ context.Context, q domlisting.ComparableQuery) ([]*ltypes.Listing, error) {
	r.lastQuery = q
	return r.result, r.err
}

func TestSelectorBuildsQuery(t *testing.T) {
	repo := &queryCapturingRepo{result: []*ltypes.Listing{{ID: "c1"}}}
	sel := NewSelector(repo, nil)

	subject := &ltypes.Listing{
		ID:           "sub-1",
		City:         "Beograd",
		Municipality: "Zvezdara",
		Area:         60,
		Rooms:        2.0,
		ListingType:  ltypes.TypeSale,
	}

	got, err := sel.Select(context.Background(), subject, SelectOptions{
		WindowDays:              30,
		AreaTolerance:           0.20,
		RequireSameMunicipality: true,
		Limit:                   50,
	}, testNow)
	require.NoError(t, err)
	require.Len(t, got, 1)

	q := repo.lastQuery
	assert.Equal(t, "Beograd", q.City)
	assert.Equal(t, ltypes.TypeSale, q.ListingType)
	assert.Equal(t, "Zvezdara", q.Municipality)
	assert.Equal(t, testNow.AddDate(0, 0, -30), q.CreatedAfter)
	assert.True(t, q.ActiveOnly)
	assert.Equal(t, ltypes.ID("sub-1"), q.ExcludeID)
	assert.Equal(t, 50, q.Limit)

	assert.InDelta(t, 48, q.MinArea, 1e-9)
	assert.InDelta(t, 72, q.MaxArea, 1e-9)
	// 2.0 rooms is above the exact-match threshold, so a half-room band.
	assert.InDelta(t, 1.5, q.MinRooms, 1e-9)
	assert.InDelta(t, 2.5, q.MaxRooms, 1e-9)
}

func TestSelectorSmallUnitsMatchRoomsExactly(t *testing.T) {
	repo := &queryCapturingRepo{}
	sel := NewSelector(repo, nil)

	subject := &ltypes.Listing{ID: "s", City: "Novi Sad", Area: 28, Rooms: 1.0, ListingType: ltypes.TypeSale}
	_, err := sel.Select(context.Background(), subject, SelectOptions{WindowDays: 30, AreaTolerance: 0.30}, testNow)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, repo.lastQuery.MinRooms, 1e-9)
	assert.InDelta(t, 1.0, repo.lastQuery.MaxRooms, 1e-9)
}

func TestSelectorOptionalFiltersStayOff(t *testing.T) {
	repo := &queryCapturingRepo{}
	sel := NewSelector(repo, nil)

	subject := &ltypes.Listing{ID: "s", City: "Beograd", Municipality: "Vračar", Area: 60, ListingType: ltypes.TypeSale}
	_, err := sel.Select(context.Background(), subject, SelectOptions{WindowDays: 30, AreaTolerance: 0.20}, testNow)
	require.NoError(t, err)

	q := repo.lastQuery
	assert.Empty(t, q.Municipality, "municipality filter off unless required")
	assert.Zero(t, q.MinRooms)
	assert.Zero(t, q.MaxRooms)
}

func TestSelectorPropagatesRepositoryError(t *testing.T) {
	repo := &queryCapturingRepo{err: context.DeadlineExceeded}
	sel := NewSelector(repo, nil)

	subject := &ltypes.Listing{ID: "s", City: "Beograd", Area: 60, ListingType: ltypes.TypeSale}
	_, err := sel.Select(context.Background(), subject, SelectOptions{WindowDays: 7, AreaTolerance: 0.20}, time.Now())
	assert.Error(t, err)
}

//Personal.AI order the ending
