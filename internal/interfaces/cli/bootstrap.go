package cli

import (
	"context"
	"strings"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/application/hunt"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/config"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/dedup"
	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/scoring"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/database/postgres"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/database/redis"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/messaging/kafka"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/prometheus"
)

// Stack is the fully wired application: repositories, domain components and
// the hunt pipeline, plus the resources that must be released on exit.
type Stack struct {
	Config *config.Config
	Logger logging.Logger

	Listings   *repositories.ListingRepository
	Histories  *repositories.HistoryRepository
	Identifier domlisting.Identifier
	Selector   *valuation.Selector
	Engine     *valuation.Engine
	Tracker    *tracking.Tracker

	Hunt *hunt.Service

	// Metrics owns the Prometheus registry; long-running processes expose
	// its Handler.
	Metrics prometheus.MetricsCollector

	closers []func()
}

// BuildStack constructs every component from configuration.  Postgres is
// mandatory; Redis caching/locking and Kafka publishing attach only when
// their endpoints are configured, the pipeline degrades gracefully without
// them.
func BuildStack(ctx context.Context, cfg *config.Config, log logging.Logger) (*Stack, error) {
	st := &Stack{Config: cfg, Logger: log}

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	st.closers = append(st.closers, conn.Close)

	st.Listings = repositories.NewListingRepository(conn.Pool(), log)
	st.Histories = repositories.NewHistoryRepository(conn.Pool(), log)

	tiers := valuation.NewDefaultTierTable()
	st.Identifier = domlisting.NewTruncatingIdentifier()
	st.Selector = valuation.NewSelector(st.Listings, log)
	st.Engine = valuation.NewEngine(tiers, cfg.Engine.MinComparables, cfg.Engine.DiscountThreshold)
	st.Tracker = tracking.NewTracker(st.Histories, cfg.Engine.StaleAfter, log)

	deps := hunt.Deps{
		Listings:   st.Listings,
		Histories:  st.Histories,
		Identifier: st.Identifier,
		Selector:   st.Selector,
		Engine:     st.Engine,
		Scorer:     scoring.NewScorer(),
		Tracker:    st.Tracker,
		Duplicates: dedup.NewDetector(st.Identifier),
		Fraud:      dedup.NewFraudDetector(tiers),
		Logger:     log,
	}

	// Redis is an accelerator, not a dependency: the pipeline runs without
	// the valuation cache and with in-process locking when it is down.
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(cfg.Redis, log)
		if err != nil {
			log.Warn("redis unavailable, running without cache and distributed locks",
				logging.String("addr", cfg.Redis.Addr), logging.Err(err))
		} else {
			st.closers = append(st.closers, func() { _ = client.Close() })
			deps.Cache = redis.NewValuationCache(client, log)
			deps.Locker = redis.NewKeyedLock(client, log)
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = producer.Close() })
		deps.Publisher = producer
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: "estate",
		Subsystem: "engine",
	}, log)
	if err != nil {
		st.Close()
		return nil, err
	}
	st.Metrics = collector
	deps.Metrics = prometheus.NewEngineMetrics(collector)

	st.Hunt = hunt.NewService(huntConfig(cfg), deps)
	return st, nil
}

// Close releases the stack's resources in reverse acquisition order.
func (s *Stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// huntConfig maps the engine and worker configuration onto the pipeline's
// own Config.
func huntConfig(cfg *config.Config) hunt.Config {
	return hunt.Config{
		Cities:                  cfg.Engine.FocusCities,
		Concurrency:             cfg.Worker.Concurrency,
		WindowDays:              cfg.Engine.WindowDays,
		AreaTolerance:           cfg.Engine.AreaTolerance,
		SparseAreaTolerance:     cfg.Engine.SparseAreaTolerance,
		RequireSameMunicipality: cfg.Engine.RequireSameMunicipality,
		TopOpportunities:        cfg.Engine.TopOpportunities,
		Criteria:                criteriaFromConfig(cfg.Engine.Criteria),
		DesperateThreshold:      cfg.Engine.DesperateThreshold,
		LockTTL:                 cfg.Engine.LockTTL,
	}
}

// criteriaFromConfig converts the serialized criteria into domain form.
func criteriaFromConfig(c config.CriteriaConfig) scoring.Criteria {
	return scoring.Criteria{
		MaxPrice:    c.MaxPrice,
		MinArea:     c.MinArea,
		MaxArea:     c.MaxArea,
		MinDiscount: c.MinDiscount,
		MinRating:   valuation.InvestmentRating(strings.ToUpper(strings.TrimSpace(c.MinRating))),
	}
}

//Personal.AI order the ending
