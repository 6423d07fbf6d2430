package messaging

import (
	"context"
	"log/slog"

	"group-task-organizer/domain/ports"
	"group-task-organizer/pkg/logger"
)

// NoopEventPublisher - ไม่ส่งอะไรเลย ใช้ตอนไม่ได้ตั้ง NATS_URL
type NoopEventPublisher struct {
	logger *slog.Logger
}

func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{
		logger: logger.Component("noop_events"),
	}
}

func (p *NoopEventPublisher) Publish(ctx context.Context, event *ports.Event) error {
	p.logger.DebugContext(ctx, "Event (noop)",
		"type", event.Type,
		"entity_id", event.EntityID,
		"user_id", event.UserID,
	)
	return nil
}

func (p *NoopEventPublisher) Close() error {
	return nil
}

var _ ports.EventPublisher = (*NoopEventPublisher)(nil)
