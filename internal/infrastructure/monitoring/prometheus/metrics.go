package prometheus

import "time"

// EngineMetrics holds all engine metrics, grouped by pipeline stage.
type EngineMetrics struct {
	// Hunt pipeline
	ListingsScanned  CounterVec
	ListingsSkipped  CounterVec
	PipelineDuration HistogramVec
	PipelineRuns     CounterVec

	// Valuation
	ValuationsComputed    CounterVec
	ValuationsUnavailable CounterVec
	ComparableSetSize     HistogramVec
	ValuationDuration     HistogramVec
	DealScore             HistogramVec
	OpportunitiesFound    CounterVec

	// Tracking
	TrackedProperties  GaugeVec
	PriceObservations  CounterVec
	PriceDrops         CounterVec
	DesperateSellers   GaugeVec
	HistoriesClosed    CounterVec

	// Dedup / fraud
	DuplicateGroups CounterVec
	FraudAlerts     CounterVec

	// Infrastructure
	DBQueryDuration  HistogramVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	EventsPublished  CounterVec
	EventsFailed     CounterVec
	ErrorsTotal      CounterVec
}

// Default buckets.
var (
	DefaultPipelineDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600}
	DefaultValuationBuckets        = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultComparableSizeBuckets   = []float64{0, 1, 2, 3, 5, 10, 20, 50, 100}
	DefaultScoreBuckets            = []float64{10, 20, 35, 50, 65, 80, 90, 100}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewEngineMetrics registers every engine metric on the collector and returns
// the populated struct.
func NewEngineMetrics(collector MetricsCollector) *EngineMetrics {
	m := &EngineMetrics{}

	// Hunt pipeline
	m.ListingsScanned = collector.RegisterCounter("listings_scanned_total", "Listings pulled into a hunt batch", "city", "source")
	m.ListingsSkipped = collector.RegisterCounter("listings_skipped_total", "Listings skipped before valuation", "reason")
	m.PipelineDuration = collector.RegisterHistogram("pipeline_duration_seconds", "Full hunt pipeline duration", DefaultPipelineDurationBuckets, "city")
	m.PipelineRuns = collector.RegisterCounter("pipeline_runs_total", "Hunt pipeline executions", "status")

	// Valuation
	m.ValuationsComputed = collector.RegisterCounter("valuations_computed_total", "Successful value estimates", "city", "basis")
	m.ValuationsUnavailable = collector.RegisterCounter("valuations_unavailable_total", "Listings with no possible estimate", "city")
	m.ComparableSetSize = collector.RegisterHistogram("comparable_set_size", "Comparable set size per valuation", DefaultComparableSizeBuckets, "city")
	m.ValuationDuration = collector.RegisterHistogram("valuation_duration_seconds", "Per-listing valuation duration", DefaultValuationBuckets, "city")
	m.DealScore = collector.RegisterHistogram("deal_score", "Deal score distribution", DefaultScoreBuckets, "city")
	m.OpportunitiesFound = collector.RegisterCounter("opportunities_found_total", "Opportunities passing the criteria filter", "city", "rating")

	// Tracking
	m.TrackedProperties = collector.RegisterGauge("tracked_properties", "Open price histories", "city")
	m.PriceObservations = collector.RegisterCounter("price_observations_total", "Appended price observations", "direction")
	m.PriceDrops = collector.RegisterCounter("price_drops_total", "Observed price drops", "city")
	m.DesperateSellers = collector.RegisterGauge("desperate_sellers", "Properties above the desperation threshold", "city")
	m.HistoriesClosed = collector.RegisterCounter("histories_closed_total", "Price histories closed as stale")

	// Dedup / fraud
	m.DuplicateGroups = collector.RegisterCounter("duplicate_groups_total", "Cross-source duplicate groups detected", "flagged")
	m.FraudAlerts = collector.RegisterCounter("fraud_alerts_total", "Fraud alerts raised", "alert_type")

	// Infrastructure
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Repository query duration", DefaultDBDurationBuckets, "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Valuation cache hits")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Valuation cache misses")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Kafka events published", "topic")
	m.EventsFailed = collector.RegisterCounter("events_failed_total", "Kafka publish failures", "topic")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

// Helpers

// RecordValuation records one estimate outcome in a single call.
func RecordValuation(m *EngineMetrics, city, basis string, comparables int, elapsed time.Duration) {
	m.ValuationsComputed.WithLabelValues(city, basis).Inc()
	m.ComparableSetSize.WithLabelValues(city).Observe(float64(comparables))
	m.ValuationDuration.WithLabelValues(city).Observe(elapsed.Seconds())
}

// RecordCacheAccess records a valuation-cache lookup.
func RecordCacheAccess(m *EngineMetrics, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues().Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues().Inc()
	}
}

// RecordPublish records a Kafka publish attempt.
func RecordPublish(m *EngineMetrics, topic string, err error) {
	if err != nil {
		m.EventsFailed.WithLabelValues(topic).Inc()
		return
	}
	m.EventsPublished.WithLabelValues(topic).Inc()
}

// RecordError records a component failure by error code.
func RecordError(m *EngineMetrics, component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
