package serviceimpl

import (
	"context"

	"group-task-organizer/domain/ports"
	"group-task-organizer/pkg/logger"
)

// publish sends a domain event. The write already committed, so a broker
// failure is logged and does not fail the request.
func publish(ctx context.Context, publisher ports.EventPublisher, event *ports.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event",
			"type", event.Type,
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}
