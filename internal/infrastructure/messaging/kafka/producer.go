package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/application/hunt"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/config"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/dedup"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/scoring"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeMessagingError, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerMetrics counts publish outcomes.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
}

// Producer ships pipeline reports to Kafka.  It implements
// hunt.EventPublisher; one envelope per domain event, keyed for stable
// partitioning per listing or property identity.
type Producer struct {
	writer  WriterInterface
	logger  logging.Logger
	closed  atomic.Bool
	metrics *ProducerMetrics
}

// NewProducer builds a producer from the Kafka config.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	var requiredAcks kafka.RequiredAcks
	switch cfg.RequiredAcks {
	case "none":
		requiredAcks = kafka.RequireNone
	case "all":
		requiredAcks = kafka.RequireAll
	default:
		requiredAcks = kafka.RequireOne
	}

	var compression kafka.Compression
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "snappy":
		compression = kafka.Snappy
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	default:
		compression = kafka.Compression(0)
	}

	maxAttempts := cfg.ProducerRetries + 1
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	writeTimeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  maxAttempts,
		BatchSize:    batchSize,
		BatchTimeout: time.Second,
		WriteTimeout: writeTimeout,
		RequiredAcks: requiredAcks,
		Compression:  compression,
	}

	return &Producer{
		writer:  writer,
		logger:  log.Named("producer"),
		metrics: &ProducerMetrics{},
	}, nil
}

// NewProducerWithWriter wires a producer onto an existing writer, for tests.
func NewProducerWithWriter(w WriterInterface, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: w, logger: log.Named("producer"), metrics: &ProducerMetrics{}}
}

var _ hunt.EventPublisher = (*Producer)(nil)

// PublishOpportunities ships one opportunity.detected event per ranked
// opportunity.
func (p *Producer) PublishOpportunities(ctx context.Context, opps []*scoring.Opportunity) error {
	msgs := make([]kafka.Message, 0, len(opps))
	for _, o := range opps {
		msg, err := p.envelope(TopicOpportunityDetected, EventOpportunityDetected, string(o.Listing.ID), o)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.write(ctx, TopicOpportunityDetected, msgs)
}

// PublishDesperateSellers ships one seller.desperate event per report entry.
func (p *Producer) PublishDesperateSellers(ctx context.Context, sellers []*tracking.DesperateSeller) error {
	msgs := make([]kafka.Message, 0, len(sellers))
	for _, s := range sellers {
		msg, err := p.envelope(TopicSellerDesperate, EventSellerDesperate, string(s.Identity), s)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.write(ctx, TopicSellerDesperate, msgs)
}

// PublishDuplicates ships one listing.duplicate event per duplicate group.
func (p *Producer) PublishDuplicates(ctx context.Context, groups []*dedup.DuplicateGroup) error {
	msgs := make([]kafka.Message, 0, len(groups))
	for _, g := range groups {
		msg, err := p.envelope(TopicListingDuplicate, EventListingDuplicate, string(g.Identity), g)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.write(ctx, TopicListingDuplicate, msgs)
}

// PublishFraudAlerts ships one listing.fraud event per alert.
func (p *Producer) PublishFraudAlerts(ctx context.Context, alerts []dedup.FraudAlert) error {
	msgs := make([]kafka.Message, 0, len(alerts))
	for _, a := range alerts {
		msg, err := p.envelope(TopicListingFraud, EventListingFraud, string(a.ListingID), a)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.write(ctx, TopicListingFraud, msgs)
}

// GetMetrics returns a snapshot of publish counters.
func (p *Producer) GetMetrics() (sent, failed int64) {
	return p.metrics.MessagesSent.Load(), p.metrics.MessagesFailed.Load()
}

// Close flushes and closes the underlying writer.  Safe to call more than
// once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("Kafka producer closed", logging.Int64("sent", p.metrics.MessagesSent.Load()))
	return err
}

func (p *Producer) envelope(topic, eventType, key string, payload interface{}) (kafka.Message, error) {
	env, err := NewEventEnvelope(eventType, payload)
	if err != nil {
		return kafka.Message{}, err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  env.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "schema_version", Value: []byte(envelopeSchemaVersion)},
		},
	}, nil
}

func (p *Producer) write(ctx context.Context, topic string, msgs []kafka.Message) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.metrics.MessagesFailed.Add(int64(len(msgs)))
		p.logger.Error("publish failed",
			logging.String("topic", topic),
			logging.Int("count", len(msgs)),
			logging.Err(err),
		)
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to publish to "+topic)
	}

	p.metrics.MessagesSent.Add(int64(len(msgs)))
	p.logger.Debug("published batch",
		logging.String("topic", topic),
		logging.Int("count", len(msgs)),
	)
	return nil
}

//Personal.AI order the ending
