// Package kafka publishes pipeline events and consumes normalized listing
// observations from the scraper fleet.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
)

// Topics the engine produces to and consumes from.
const (
	// TopicListingObserved carries normalized listings from the scrapers.
	TopicListingObserved = "listing.observed"

	TopicOpportunityDetected = "opportunity.detected"
	TopicSellerDesperate     = "seller.desperate"
	TopicListingDuplicate    = "listing.duplicate"
	TopicListingFraud        = "listing.fraud"
)

// Event types carried inside envelopes.
const (
	EventListingObserved     = "listing.observed"
	EventOpportunityDetected = "opportunity.detected"
	EventSellerDesperate     = "seller.desperate"
	EventListingDuplicate    = "listing.duplicate"
	EventListingFraud        = "listing.fraud"
)

const (
	envelopeSource        = "estate-engine"
	envelopeSchemaVersion = "v1"
)

// EventEnvelope standardizes every message on the wire.  Consumers dispatch
// on EventType and decode Payload lazily.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEventEnvelope wraps a payload with event identity and schema metadata.
func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        envelopeSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: envelopeSchemaVersion,
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "envelope has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal payload")
	}
	return nil
}

// DecodeEnvelope parses a raw message value back into an envelope.
func DecodeEnvelope(value []byte) (*EventEnvelope, error) {
	if len(value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

//Personal.AI order the ending
