package hunt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/dedup"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/scoring"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/testutil"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

var runNow = time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)

// capturingPublisher records what the pipeline ships.
type capturingPublisher struct {
	opportunities []*scoring.Opportunity
	sellers       []*tracking.DesperateSeller
	groups        []*dedup.DuplicateGroup
	alerts        []dedup.FraudAlert
	fail          bool
}

func (p *capturingPublisher) PublishOpportunities(_ context.Context, o []*scoring.Opportunity) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.opportunities = o
	return nil
}

func (p *capturingPublisher) PublishDesperateSellers(_ context.Context, s []*tracking.DesperateSeller) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.sellers = s
	return nil
}

func (p *capturingPublisher) PublishDuplicates(_ context.Context, g []*dedup.DuplicateGroup) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.groups = g
	return nil
}

func (p *capturingPublisher) PublishFraudAlerts(_ context.Context, a []dedup.FraudAlert) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.alerts = a
	return nil
}

func activeListing(id, title, municipality string, price, area, rooms float64) *ltypes.Listing {
	return &ltypes.Listing{
		ID:           ltypes.ID(id),
		Title:        title,
		Price:        ltypes.EUR(price),
		Area:         area,
		Rooms:        rooms,
		City:         "Beograd",
		Municipality: municipality,
		ListingType:  ltypes.TypeSale,
		Source:       ltypes.SourceHaloOglasi,
		ExternalID:   "ext-" + id,
		CreatedAt:    runNow.AddDate(0, 0, -5),
		LastSeenAt:   runNow,
		Active:       true,
	}
}

func newTestService(listings *testutil.InMemoryListingRepo, histories *testutil.InMemoryHistoryRepo, pub EventPublisher, cfg Config) *Service {
	tiers := valuation.NewDefaultTierTable()
	return NewService(cfg, Deps{
		Listings:   listings,
		Histories:  histories,
		Selector:   valuation.NewSelector(listings, nil),
		Engine:     valuation.NewEngine(tiers, 3, 0.10),
		Scorer:     scoring.NewScorer(),
		Tracker:    tracking.NewTracker(histories, 0, nil),
		Duplicates: dedup.NewDetector(nil),
		Fraud:      dedup.NewFraudDetector(tiers),
		Publisher:  pub,
		Logger:     testutil.NewMockLogger(),
	})
}

func seedMarket(repo *testutil.InMemoryListingRepo) (subject *ltypes.Listing) {
	subject = activeListing("subject", "Dvosoban stan", "Zvezdara", 100000, 60, 2.0)
	repo.Seed(
		subject,
		activeListing("comp-1", "Stan kod Liona", "Zvezdara", 2500*55, 55, 2.0),
		activeListing("comp-2", "Stan na Cvetkovoj", "Zvezdara", 2500*60, 60, 2.0),
		activeListing("comp-3", "Stan kod Vukovog spomenika", "Zvezdara", 2500*65, 65, 2.0),
	)
	return subject
}

func TestRunFindsUnderpricedListing(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()
	pub := &capturingPublisher{}
	seedMarket(repo)

	svc := newTestService(repo, histories, pub, Config{
		Cities:      []string{"Beograd"},
		Concurrency: 4,
	})

	report, err := svc.Run(context.Background(), runNow)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Scanned)
	assert.Zero(t, report.Skipped)
	require.NotEmpty(t, report.Opportunities)

	top := report.Opportunities[0]
	assert.Equal(t, ltypes.ID("subject"), top.Listing.ID)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, valuation.BasisComparables, top.Valuation.Basis)
	assert.True(t, top.Valuation.GoodDeal)
	assert.Contains(t, top.Alerts, scoring.AlertHighDiscount)

	// Every listing got a price history on first sight.
	assert.Equal(t, 4, histories.Len())

	// The report went out.
	assert.Equal(t, report.Opportunities, pub.opportunities)
}

func TestRunWidensAreaBandBelowComparableMinimum(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()

	// The routine 20% band around 60m2 (48-72) catches a single comp;
	// the sparse 30% band (42-78) catches all three.
	subject := activeListing("subject", "Dvosoban stan", "Zvezdara", 100000, 60, 2.0)
	repo.Seed(
		subject,
		activeListing("comp-near", "Stan u centru", "Zvezdara", 2500*55, 55, 2.0),
		activeListing("comp-wide-1", "Stan kod parka", "Zvezdara", 2500*75, 75, 2.0),
		activeListing("comp-wide-2", "Stan na uglu", "Zvezdara", 2500*76, 76, 2.0),
	)

	svc := newTestService(repo, histories, &capturingPublisher{}, Config{
		Cities:              []string{"Beograd"},
		Concurrency:         2,
		AreaTolerance:       0.20,
		SparseAreaTolerance: 0.30,
	})

	report, err := svc.Run(context.Background(), runNow)
	require.NoError(t, err)
	require.NotEmpty(t, report.Opportunities)

	top := report.Opportunities[0]
	assert.Equal(t, ltypes.ID("subject"), top.Listing.ID)
	assert.Equal(t, valuation.BasisComparables, top.Valuation.Basis,
		"one in-band comp must not drop the valuation to the tier table")
	assert.Equal(t, 3, top.Valuation.ComparableSize)
}

func TestRunSkipsUnvaluableListings(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()
	seedMarket(repo)

	unpriced := activeListing("unpriced", "Stan bez cene", "Zvezdara", 0, 60, 2.0)
	repo.Seed(unpriced)

	svc := newTestService(repo, histories, &capturingPublisher{}, Config{
		Cities:      []string{"Beograd"},
		Concurrency: 2,
	})

	report, err := svc.Run(context.Background(), runNow)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Scanned)
	assert.Equal(t, 1, report.Skipped)
	for _, o := range report.Opportunities {
		assert.NotEqual(t, ltypes.ID("unpriced"), o.Listing.ID)
	}
}

func TestRunRaisesFraudAlerts(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()
	seedMarket(repo)

	shady := activeListing("shady", "HITNO! Lux, ekskluzivan stan", "Zemun", 24000, 60, 2.0)
	repo.Seed(shady)

	svc := newTestService(repo, histories, &capturingPublisher{}, Config{
		Cities:      []string{"Beograd"},
		Concurrency: 2,
	})

	report, err := svc.Run(context.Background(), runNow)
	require.NoError(t, err)

	types := make(map[dedup.FraudAlertType]int)
	for _, a := range report.FraudAlerts {
		if a.ListingID == "shady" {
			types[a.Type]++
		}
	}
	assert.Equal(t, 1, types[dedup.FraudUrgencyLanguage])
	assert.Equal(t, 1, types[dedup.FraudBuzzwordDensity])
	assert.Equal(t, 1, types[dedup.FraudPriceBelowFloor])
}

func TestRunDetectsCrossSourceDuplicates(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()
	seedMarket(repo)

	twin := activeListing("twin", "Dvosoban stan", "Zvezdara", 115000, 60, 2.0)
	twin.Source = ltypes.Source("nekretnine")
	twin.ExternalID = "n-77"
	repo.Seed(twin)

	pub := &capturingPublisher{}
	svc := newTestService(repo, histories, pub, Config{
		Cities:      []string{"Beograd"},
		Concurrency: 2,
	})

	report, err := svc.Run(context.Background(), runNow)
	require.NoError(t, err)

	require.Len(t, report.DuplicateGroups, 1)
	g := report.DuplicateGroups[0]
	assert.Len(t, g.Listings, 2)
	assert.True(t, g.PriceDiscrepancy, "15% spread must be flagged")
	assert.InDelta(t, 95000, g.RecommendedAnchor, 1e-9)
	assert.Equal(t, report.DuplicateGroups, pub.groups)
}

func TestRunAppliesCriteriaAndTop(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()
	seedMarket(repo)

	svc := newTestService(repo, histories, &capturingPublisher{}, Config{
		Cities:           []string{"Beograd"},
		Concurrency:      2,
		TopOpportunities: 1,
		Criteria:         scoring.Criteria{MinDiscount: 0.15},
	})

	report, err := svc.Run(context.Background(), runNow)
	require.NoError(t, err)

	// Only the underpriced subject clears a 15% discount bar, and the
	// report is capped at one entry anyway.
	require.Len(t, report.Opportunities, 1)
	assert.Equal(t, ltypes.ID("subject"), report.Opportunities[0].Listing.ID)
}

func TestRunSurvivesPublisherFailure(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()
	seedMarket(repo)

	svc := newTestService(repo, histories, &capturingPublisher{fail: true}, Config{
		Cities:      []string{"Beograd"},
		Concurrency: 2,
	})

	report, err := svc.Run(context.Background(), runNow)
	require.NoError(t, err, "publish failures must not abort the batch")
	assert.NotEmpty(t, report.Opportunities)
}

func TestRunTrackingIsIdempotentAcrossRuns(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()
	subject := seedMarket(repo)

	svc := newTestService(repo, histories, &capturingPublisher{}, Config{
		Cities:      []string{"Beograd"},
		Concurrency: 2,
	})

	ctx := context.Background()
	_, err := svc.Run(ctx, runNow)
	require.NoError(t, err)
	_, err = svc.Run(ctx, runNow.Add(24*time.Hour))
	require.NoError(t, err)

	identifier := svc.identifier
	h, err := histories.Get(ctx, identifier.Identity(subject))
	require.NoError(t, err)
	assert.Len(t, h.Observations, 1, "unchanged price must not append")
	assert.Equal(t, runNow.Add(24*time.Hour), h.LastSeen)
}

func TestInsights(t *testing.T) {
	repo := testutil.NewInMemoryListingRepo()
	histories := testutil.NewInMemoryHistoryRepo()

	repo.Seed(
		activeListing("v1", "Stan 1", "Vračar", 2800*50, 50, 2.0),
		activeListing("v2", "Stan 2", "Vračar", 2900*55, 55, 2.0),
		activeListing("v3", "Stan 3", "Vračar", 2700*60, 60, 2.0),
		activeListing("r1", "Stan 4", "Rakovica", 1400*50, 50, 2.0),
		activeListing("r2", "Stan 5", "Rakovica", 1500*55, 55, 2.0),
		activeListing("r3", "Stan 6", "Rakovica", 1600*60, 60, 2.0),
	)

	svc := newTestService(repo, histories, &capturingPublisher{}, Config{
		Cities:      []string{"Beograd"},
		Concurrency: 2,
	})

	ins, err := svc.Insights(context.Background(), "Beograd", runNow)
	require.NoError(t, err)

	assert.Equal(t, 6, ins.TotalListings)
	require.Len(t, ins.ByMunicipality, 2)
	assert.Equal(t, "Rakovica", ins.ByMunicipality[0].Municipality)
	assert.InDelta(t, 1500, ins.ByMunicipality[0].AvgUnitPrice, 1e-9)
	assert.InDelta(t, 2800, ins.ByMunicipality[1].AvgUnitPrice, 1e-9)

	require.NotEmpty(t, ins.BestValue)
	assert.Equal(t, "Rakovica", ins.BestValue[0])

	assert.Equal(t, MarketSellers, ins.Condition, "no observed drops yet")
}

//Personal.AI order the ending
