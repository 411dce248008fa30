package hunt

import (
	"context"
	"sync"
	"time"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/dedup"
	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/scoring"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// Config holds the pipeline tunables.  Nothing here is hard-coded in the
// domain components; the service passes everything down at call time.
type Config struct {
	Cities      []string
	ListingType ltypes.ListingType

	Concurrency int

	WindowDays              int
	AreaTolerance           float64
	SparseAreaTolerance     float64
	RequireSameMunicipality bool

	TopOpportunities   int
	Criteria           scoring.Criteria
	DesperateThreshold int

	// LockTTL bounds how long a per-identity tracking lock may be held.
	LockTTL time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.ListingType == "" {
		out.ListingType = ltypes.TypeSale
	}
	if out.Concurrency < 1 {
		out.Concurrency = 1
	}
	if out.WindowDays < 1 {
		out.WindowDays = 30
	}
	if out.AreaTolerance <= 0 {
		out.AreaTolerance = 0.20
	}
	if out.LockTTL <= 0 {
		out.LockTTL = 30 * time.Second
	}
	return out
}

// Report is one pipeline run's complete output.
type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Scanned     int `json:"scanned"`
	Skipped     int `json:"skipped"`
	Unavailable int `json:"unavailable"`

	Opportunities    []*scoring.Opportunity      `json:"opportunities"`
	DesperateSellers []*tracking.DesperateSeller `json:"desperate_sellers"`
	DuplicateGroups  []*dedup.DuplicateGroup     `json:"duplicate_groups"`
	FraudAlerts      []dedup.FraudAlert          `json:"fraud_alerts"`
}

// Service wires the domain components into the batch pipeline.
type Service struct {
	cfg Config

	listings    domlisting.Repository
	histories   tracking.HistoryRepository
	identifier  domlisting.Identifier
	selector    *valuation.Selector
	engine      *valuation.Engine
	scorer      *scoring.Scorer
	tracker     *tracking.Tracker
	duplicates  *dedup.Detector
	fraud       *dedup.FraudDetector

	locker    Locker
	cache     ValuationCache
	publisher EventPublisher

	metrics *prometheus.EngineMetrics
	log     logging.Logger
}

// Deps collects the service's collaborators.
type Deps struct {
	Listings  domlisting.Repository
	Histories tracking.HistoryRepository

	Identifier domlisting.Identifier
	Selector   *valuation.Selector
	Engine     *valuation.Engine
	Scorer     *scoring.Scorer
	Tracker    *tracking.Tracker
	Duplicates *dedup.Detector
	Fraud      *dedup.FraudDetector

	Locker    Locker
	Cache     ValuationCache
	Publisher EventPublisher

	Metrics *prometheus.EngineMetrics
	Logger  logging.Logger
}

// NewService constructs the pipeline service.  Locker defaults to the
// in-process StripedLocker;
// Cache and Publisher may be nil; Identifier defaults to the truncating one.
func NewService(cfg Config, d Deps) *Service {
	if d.Identifier == nil {
		d.Identifier = domlisting.NewTruncatingIdentifier()
	}
	if d.Locker == nil {
		d.Locker = NewStripedLocker()
	}
	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	return &Service{
		cfg:        cfg.withDefaults(),
		listings:   d.Listings,
		histories:  d.Histories,
		identifier: d.Identifier,
		selector:   d.Selector,
		engine:     d.Engine,
		scorer:     d.Scorer,
		tracker:    d.Tracker,
		duplicates: d.Duplicates,
		fraud:      d.Fraud,
		locker:     d.Locker,
		cache:      d.Cache,
		publisher:  d.Publisher,
		metrics:    d.Metrics,
		log:        d.Logger.Named("hunt"),
	}
}

// Run executes one full pass over the configured cities.  A single
// listing's failure never aborts the batch; repository errors during
// snapshot collection do.
func (s *Service) Run(ctx context.Context, now time.Time) (*Report, error) {
	if now.IsZero() {
		now = time.Now()
	}
	report := &Report{StartedAt: now}

	batch, err := s.collect(ctx)
	if err != nil {
		s.recordRun("failed")
		return nil, err
	}
	report.Scanned = len(batch)
	s.log.Info("batch collected",
		logging.Int("listings", len(batch)),
		logging.Int("cities", len(s.cfg.Cities)),
	)

	// Full-batch barrier: grouping is global across sources, so dedup
	// runs before any per-listing work.
	report.DuplicateGroups = s.duplicates.FindDuplicates(batch)
	report.FraudAlerts = dedup.CollisionAlerts(report.DuplicateGroups)
	if s.metrics != nil {
		for _, g := range report.DuplicateGroups {
			flagged := "clean"
			if g.PriceDiscrepancy {
				flagged = "price_discrepancy"
			}
			s.metrics.DuplicateGroups.WithLabelValues(flagged).Inc()
		}
	}

	outcomes := s.processBatch(ctx, batch, now)
	for _, out := range outcomes {
		report.Skipped += out.skipped
		report.Unavailable += out.unavailable
		if out.opportunity != nil {
			report.Opportunities = append(report.Opportunities, out.opportunity)
		}
		report.FraudAlerts = append(report.FraudAlerts, out.fraud...)
	}
	if s.metrics != nil {
		for _, a := range report.FraudAlerts {
			s.metrics.FraudAlerts.WithLabelValues(string(a.Type)).Inc()
		}
	}

	report.Opportunities = scoring.RankOpportunities(
		s.cfg.Criteria.Filter(report.Opportunities))
	report.Opportunities = scoring.Top(report.Opportunities, s.cfg.TopOpportunities)
	if s.metrics != nil {
		for _, o := range report.Opportunities {
			s.metrics.OpportunitiesFound.
				WithLabelValues(o.Listing.City, string(o.Valuation.Rating)).Inc()
		}
	}

	report.DesperateSellers, err = s.desperateSellers(ctx, now)
	if err != nil {
		s.log.Warn("desperate-seller report failed", logging.Err(err))
	}

	s.publish(ctx, report)

	report.FinishedAt = time.Now()
	if s.metrics != nil {
		s.metrics.PipelineDuration.WithLabelValues("all").
			Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	}
	s.recordRun("ok")
	s.log.Info("pipeline finished",
		logging.Int("opportunities", len(report.Opportunities)),
		logging.Int("desperate_sellers", len(report.DesperateSellers)),
		logging.Int("duplicate_groups", len(report.DuplicateGroups)),
		logging.Int("fraud_alerts", len(report.FraudAlerts)),
		logging.Int("skipped", report.Skipped),
	)
	return report, nil
}

// collect snapshots the active listings for every configured city.  The
// snapshot is immutable for the rest of the pass.
func (s *Service) collect(ctx context.Context) ([]*ltypes.Listing, error) {
	var batch []*ltypes.Listing
	for _, city := range s.cfg.Cities {
		listings, err := s.listings.FindActiveByCity(ctx, city, s.cfg.ListingType)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError,
				"snapshot collection failed for "+city)
		}
		batch = append(batch, listings...)
		if s.metrics != nil {
			for _, l := range listings {
				s.metrics.ListingsScanned.WithLabelValues(city, string(l.Source)).Inc()
			}
		}
	}
	return batch, nil
}

// outcome is one listing's pipeline result.
type outcome struct {
	opportunity *scoring.Opportunity
	fraud       []dedup.FraudAlert
	skipped     int
	unavailable int
}

// processBatch fans the batch out over a bounded worker pool.  Valuation,
// scoring and fraud detection are pure per listing; tracking serializes per
// identity through the locker.
func (s *Service) processBatch(ctx context.Context, batch []*ltypes.Listing, now time.Time) []outcome {
	outcomes := make([]outcome, len(batch))
	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, l := range batch {
		wg.Add(1)
		go func(idx int, l *ltypes.Listing) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[idx] = s.processOne(ctx, l, now)
		}(i, l)
	}
	wg.Wait()
	return outcomes
}

func (s *Service) processOne(ctx context.Context, l *ltypes.Listing, now time.Time) outcome {
	var out outcome

	if err := l.RequireValuable(); err != nil {
		s.log.Debug("listing skipped", logging.String("id", string(l.ID)), logging.Err(err))
		if s.metrics != nil {
			s.metrics.ListingsSkipped.WithLabelValues(string(apperrors.GetCode(err))).Inc()
		}
		out.skipped = 1
		return out
	}

	res, err := s.valuate(ctx, l, now)
	if err != nil {
		if apperrors.IsUnavailable(err) {
			if s.metrics != nil {
				s.metrics.ValuationsUnavailable.WithLabelValues(l.City).Inc()
			}
			out.unavailable = 1
		} else {
			s.log.Warn("valuation failed",
				logging.String("id", string(l.ID)), logging.Err(err))
			out.skipped = 1
		}
		return out
	}

	priceDropped, desperate := s.track(ctx, l, now)

	breakdown := s.scorer.Score(l, res, desperate)
	if s.metrics != nil {
		s.metrics.DealScore.WithLabelValues(l.City).Observe(breakdown.Total)
	}

	out.opportunity = scoring.BuildOpportunity(l, res, breakdown, priceDropped, desperate)
	out.fraud = s.fraud.DetectOne(l)
	return out
}

// valuate estimates one listing, consulting the cache first.
func (s *Service) valuate(ctx context.Context, l *ltypes.Listing, now time.Time) (*valuation.Result, error) {
	if s.cache != nil {
		if res, ok := s.cache.Get(ctx, l.ID); ok {
			prometheus.RecordCacheAccess(s.metrics, true)
			return res, nil
		}
		prometheus.RecordCacheAccess(s.metrics, false)
	}

	started := time.Now()
	comps, err := s.selector.Select(ctx, l, valuation.SelectOptions{
		WindowDays:              s.cfg.WindowDays,
		AreaTolerance:           s.cfg.AreaTolerance,
		RequireSameMunicipality: s.cfg.RequireSameMunicipality,
	}, now)
	if err != nil {
		return nil, err
	}

	// Sparse markets get one retry with the widened area band whenever the
	// narrow band cannot satisfy the engine's comparable minimum.
	if len(comps) < s.engine.MinComparables() && s.cfg.SparseAreaTolerance > s.cfg.AreaTolerance {
		comps, err = s.selector.Select(ctx, l, valuation.SelectOptions{
			WindowDays:              s.cfg.WindowDays,
			AreaTolerance:           s.cfg.SparseAreaTolerance,
			RequireSameMunicipality: false,
		}, now)
		if err != nil {
			return nil, err
		}
	}

	res, err := s.engine.Estimate(valuation.EstimateInput{
		Subject:     l,
		Comparables: comps,
		SourceCount: countSources(comps, l),
		Now:         now,
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		prometheus.RecordValuation(s.metrics, l.City, string(res.Basis),
			res.ComparableSize, time.Since(started))
	}
	if s.cache != nil {
		s.cache.Set(ctx, l.ID, res)
	}
	return res, nil
}

// track records the price observation under the per-identity lock and
// returns the drop and desperation signals for scoring.  Tracking failures
// degrade to unboosted scoring instead of failing the listing.
func (s *Service) track(ctx context.Context, l *ltypes.Listing, now time.Time) (priceDropped, desperate bool) {
	identity := s.identifier.Identity(l)

	release, err := s.locker.Acquire(ctx, "track:"+string(identity), s.cfg.LockTTL)
	if err != nil {
		s.log.Warn("identity lock unavailable",
			logging.String("identity", string(identity)), logging.Err(err))
		return false, false
	}
	defer release()

	h, err := s.tracker.Track(ctx, identity, l.Price.Amount, now, l.Source)
	if err != nil {
		s.log.Warn("tracking failed",
			logging.String("identity", string(identity)), logging.Err(err))
		return false, false
	}

	if s.metrics != nil && len(h.Observations) > 0 {
		if obs := h.Observations[len(h.Observations)-1]; obs.ObservedAt.Equal(now) {
			direction := "initial"
			switch {
			case obs.ChangeAmount < 0:
				direction = "drop"
				s.metrics.PriceDrops.WithLabelValues(l.City).Inc()
			case obs.ChangeAmount > 0:
				direction = "increase"
			}
			s.metrics.PriceObservations.WithLabelValues(direction).Inc()
		}
	}

	threshold := s.cfg.DesperateThreshold
	if threshold <= 0 {
		threshold = tracking.DefaultDesperateThreshold
	}
	return h.Drops > 0, tracking.Desperation(h).Total >= threshold
}

// desperateSellers builds the ranked report from every open history.
func (s *Service) desperateSellers(ctx context.Context, now time.Time) ([]*tracking.DesperateSeller, error) {
	open, err := s.histories.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	return tracking.DesperateSellers(open, s.cfg.DesperateThreshold, now), nil
}

// publish ships the report sections; failures are logged, never fatal.
func (s *Service) publish(ctx context.Context, report *Report) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOpportunities(ctx, report.Opportunities); err != nil {
		s.log.Warn("opportunity publish failed", logging.Err(err))
	}
	if err := s.publisher.PublishDesperateSellers(ctx, report.DesperateSellers); err != nil {
		s.log.Warn("desperate-seller publish failed", logging.Err(err))
	}
	if err := s.publisher.PublishDuplicates(ctx, report.DuplicateGroups); err != nil {
		s.log.Warn("duplicate publish failed", logging.Err(err))
	}
	if err := s.publisher.PublishFraudAlerts(ctx, report.FraudAlerts); err != nil {
		s.log.Warn("fraud-alert publish failed", logging.Err(err))
	}
}

func (s *Service) recordRun(status string) {
	if s.metrics != nil {
		s.metrics.PipelineRuns.WithLabelValues(status).Inc()
	}
}

func countSources(comps []*ltypes.Listing, subject *ltypes.Listing) int {
	seen := map[ltypes.Source]bool{subject.Source: true}
	for _, c := range comps {
		seen[c.Source] = true
	}
	return len(seen)
}

//Personal.AI order the ending
