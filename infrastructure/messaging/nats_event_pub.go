package messaging

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"

	"group-task-organizer/domain/ports"
)

// NATSEventPublisher implements EventPublisher using core NATS Pub/Sub
type NATSEventPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSEventPublisher สร้าง EventPublisher adapter สำหรับ NATS
func NewNATSEventPublisher(conn *nats.Conn, subjectPrefix string) ports.EventPublisher {
	return &NATSEventPublisher{
		conn:   conn,
		prefix: subjectPrefix,
	}
}

// Subject returns `<prefix>.<event type>`, e.g. taskorg.task.created.
func (p *NATSEventPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *NATSEventPublisher) Publish(ctx context.Context, event *ports.Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}

	data, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.conn.Publish(p.Subject(event.Type), data)
}

// Close is a no-op; the connection belongs to the nats.Client.
func (p *NATSEventPublisher) Close() error {
	return nil
}
