package kafka

import (
	"context"
	stderrors "errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/config"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

var ErrConsumerClosed = errors.New(errors.ErrCodeMessagingError, "consumer closed")

const (
	defaultGroupID        = "estate-engine"
	defaultHandlerRetries = 3
	defaultHandlerBackoff = 500 * time.Millisecond
)

// ListingHandler processes one observed listing.  A nil return commits the
// message; an error triggers bounded retries before the message is skipped.
type ListingHandler func(ctx context.Context, l *ltypes.Listing) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerMetrics counts consumption outcomes.
type ConsumerMetrics struct {
	MessagesConsumed atomic.Int64
	MessagesHandled  atomic.Int64
	MessagesSkipped  atomic.Int64
}

// ListingConsumer reads normalized listings off the scraper topic and hands
// them to the ingest handler.  Malformed messages are logged and committed so
// one bad record never wedges the partition.
type ListingConsumer struct {
	reader  ReaderInterface
	handler ListingHandler
	logger  logging.Logger
	closed  atomic.Bool
	metrics *ConsumerMetrics

	retries int
	backoff time.Duration
}

// NewListingConsumer builds a consumer-group reader on the listing topic.
func NewListingConsumer(cfg config.KafkaConfig, handler ListingHandler, log logging.Logger) (*ListingConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if handler == nil {
		return nil, errors.New(errors.ErrCodeValidation, "listing handler required")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	groupID := cfg.ClientID
	if groupID == "" {
		groupID = defaultGroupID
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     groupID,
		Topic:       TopicListingObserved,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10 * 1024 * 1024,
	})

	return &ListingConsumer{
		reader:  reader,
		handler: handler,
		logger:  log.Named("listing_consumer"),
		metrics: &ConsumerMetrics{},
		retries: defaultHandlerRetries,
		backoff: defaultHandlerBackoff,
	}, nil
}

// NewListingConsumerWithReader wires a consumer onto an existing reader, for
// tests.
func NewListingConsumerWithReader(r ReaderInterface, handler ListingHandler, log logging.Logger) *ListingConsumer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ListingConsumer{
		reader:  r,
		handler: handler,
		logger:  log.Named("listing_consumer"),
		metrics: &ConsumerMetrics{},
		retries: defaultHandlerRetries,
		backoff: time.Millisecond,
	}
}

// Run consumes until the context ends or the consumer is closed.
func (c *ListingConsumer) Run(ctx context.Context) error {
	for {
		if c.closed.Load() {
			return ErrConsumerClosed
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to fetch message")
		}
		c.metrics.MessagesConsumed.Add(1)

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit failed", logging.Int64("offset", msg.Offset), logging.Err(err))
		}
	}
}

func (c *ListingConsumer) process(ctx context.Context, msg kafka.Message) {
	l, err := decodeListing(msg.Value)
	if err != nil {
		c.metrics.MessagesSkipped.Add(1)
		c.logger.Warn("skipping malformed listing message",
			logging.Int64("offset", msg.Offset),
			logging.Err(err),
		)
		return
	}

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}
		if err = c.handler(ctx, l); err == nil {
			c.metrics.MessagesHandled.Add(1)
			return
		}
	}

	c.metrics.MessagesSkipped.Add(1)
	c.logger.Error("listing handler exhausted retries",
		logging.String("listing_id", string(l.ID)),
		logging.Err(err),
	)
}

// GetMetrics returns a snapshot of consumption counters.
func (c *ListingConsumer) GetMetrics() (consumed, handled, skipped int64) {
	return c.metrics.MessagesConsumed.Load(),
		c.metrics.MessagesHandled.Load(),
		c.metrics.MessagesSkipped.Load()
}

// Close stops consumption and releases the reader.
func (c *ListingConsumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.reader.Close()
}

func decodeListing(value []byte) (*ltypes.Listing, error) {
	env, err := DecodeEnvelope(value)
	if err != nil {
		return nil, err
	}
	if env.EventType != EventListingObserved {
		return nil, errors.New(errors.ErrCodeValidation, "unexpected event type "+env.EventType)
	}
	var l ltypes.Listing
	if err := env.DecodePayload(&l); err != nil {
		return nil, err
	}
	if l.ID == "" {
		return nil, errors.New(errors.ErrCodeMissingRequiredField, "listing message has no id")
	}
	return &l, nil
}

//Personal.AI order the ending
