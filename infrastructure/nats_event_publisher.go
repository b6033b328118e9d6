package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wheelhouse/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// StreamName is the JetStream stream holding every wheelhouse subject
const StreamName = "wheelhouse_events"

// Subjects events are published on
const (
	SubjectSpinSettled    = "wheelhouse.spin.settled"
	SubjectBalanceChanged = "wheelhouse.balance.changed"
	SubjectAccountCreated = "wheelhouse.account.created"
)

// SubjectFor maps an event type to its NATS subject
func SubjectFor(eventType events.EventType) (string, bool) {
	switch eventType {
	case events.EventTypeSpinSettled:
		return SubjectSpinSettled, true
	case events.EventTypeBalanceChange:
		return SubjectBalanceChanged, true
	case events.EventTypeAccountCreated:
		return SubjectAccountCreated, true
	}
	return "", false
}

// AllSubjects lists every subject the bridge publishes to
func AllSubjects() []string {
	return []string{SubjectSpinSettled, SubjectBalanceChanged, SubjectAccountCreated}
}

// EventEnvelope wraps an event payload for the wire
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// MessagePublisher sends raw bytes to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// PublishRecorder is notified after each successful publish
type PublishRecorder interface {
	RecordNATSMessagePublished(subject string)
}

// NATSEventPublisher forwards committed events from the in-process bus to NATS
type NATSEventPublisher struct {
	publisher MessagePublisher
	recorder  PublishRecorder
}

// NewNATSEventPublisher creates a bridge. recorder may be nil.
func NewNATSEventPublisher(publisher MessagePublisher, recorder PublishRecorder) *NATSEventPublisher {
	return &NATSEventPublisher{
		publisher: publisher,
		recorder:  recorder,
	}
}

// Subscribe registers the bridge for every mapped event type on bus
func (p *NATSEventPublisher) Subscribe(bus *events.Bus) {
	for _, eventType := range []events.EventType{
		events.EventTypeSpinSettled,
		events.EventTypeBalanceChange,
		events.EventTypeAccountCreated,
	} {
		bus.Subscribe(eventType, func(ctx context.Context, e events.Event) {
			if err := p.Publish(ctx, e); err != nil {
				log.WithError(err).WithField("eventType", e.Type()).Error("Failed to forward event to NATS")
			}
		})
	}
}

// Publish wraps event in an envelope and sends it on its subject
func (p *NATSEventPublisher) Publish(ctx context.Context, event events.Event) error {
	subject, ok := SubjectFor(event.Type())
	if !ok {
		return fmt.Errorf("no subject for event type %s", event.Type())
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: "wheelhouse",
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.publisher.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}
	if p.recorder != nil {
		p.recorder.RecordNATSMessagePublished(subject)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Published event to NATS")
	return nil
}
