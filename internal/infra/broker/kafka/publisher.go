package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"skipper/internal/domain/shared/events"
	"skipper/internal/infra/obs"
)

// EventPublisher adapts the sarama producer to the application's Publisher
// port. Events are JSON-encoded with a small envelope and keyed by aggregate
// id so per-aggregate ordering is preserved.
type EventPublisher struct {
	Producer *Producer
	Topic    string
}

type eventEnvelope struct {
	Name        string `json:"name"`
	AggregateID string `json:"aggregate_id"`
	OccurredAt  int64  `json:"occurred_at"`
	Payload     any    `json:"payload"`
}

func (p EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	body, err := json.Marshal(eventEnvelope{
		Name:        event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().UnixMilli(),
		Payload:     event,
	})
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", event.EventName(), err)
	}
	headers := map[string]string{"event": event.EventName()}
	if id := obs.RequestIDFromContext(ctx); id != "" {
		headers["request_id"] = id
	}
	return p.Producer.Publish(ctx, p.Topic, event.AggregateID(), body, headers)
}
