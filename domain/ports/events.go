package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Event Publisher Port - domain events หลังจากเขียนข้อมูลสำเร็จ
// ═══════════════════════════════════════════════════════════════════════════════

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// Event - plain struct (ไม่มี NATS dependency)
type Event struct {
	Type       string    `json:"type"`
	EntityID   int64     `json:"entity_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

func NewEvent(eventType string, entityID, userID int64, payload any) *Event {
	return &Event{
		Type:       eventType,
		EntityID:   entityID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
