package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher provides typed methods for publishing events to NATS JetStream.
// A nil Publisher is valid and drops every event; callers treat publishing
// as best-effort.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishDistributionCreated publishes a distribution-created event.
func (p *Publisher) PublishDistributionCreated(ctx context.Context, ev DistributionCreated) error {
	return p.publish(ctx, SubjectDistributionCreated, ev)
}

// PublishDispenseCompleted publishes a dispense-completed event.
func (p *Publisher) PublishDispenseCompleted(ctx context.Context, ev DispenseCompleted) error {
	return p.publish(ctx, SubjectDispenseCompleted, ev)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	if p == nil || p.js == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
