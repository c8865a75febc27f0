package policies

import (
	"context"

	"skipper/internal/domain/shared/events"
)

// Publisher delivers domain events to the outside world. Delivery failures
// for notification-only effects are logged by callers, never fatal; nothing
// in the core invariant depends on a publish succeeding.
type Publisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// NopPublisher drops events; used in dev mode and tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, events.DomainEvent) error { return nil }
