package services

import (
	"context"
	"log/slog"

	"studentfin/internal/amqp"
)

//go:generate mockgen -source=publisher.go -destination=publisher_mock.go -package=services

// EventPublisher announces writes and budget alerts to other systems.
type EventPublisher interface {
	PublishEntityEvent(ctx context.Context, event amqp.EntityEvent) error
	PublishBudgetAlert(ctx context.Context, alert amqp.BudgetAlert) error
}

// NopPublisher drops every message. It is used when AMQP is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishEntityEvent(context.Context, amqp.EntityEvent) error { return nil }
func (NopPublisher) PublishBudgetAlert(context.Context, amqp.BudgetAlert) error { return nil }

// notify publishes an entity event. The write already succeeded, so a
// failure is logged and swallowed.
func notify(ctx context.Context, p EventPublisher, entity string, action amqp.Action, id, ownerID string) {
	event := amqp.NewEntityEvent(entity, action, id, ownerID)
	if err := p.PublishEntityEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entity event",
			"routing_key", event.RoutingKey(),
			"id", id,
			"error", err)
	}
}
