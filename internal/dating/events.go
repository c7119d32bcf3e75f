// internal/dating/events.go

package dating

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventHotpicksReady = "hotpicks_ready"
)

// Event is a message delivered to one user's realtime connection.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	UserID    int64       `json:"user_id"`
	Data      interface{} `json:"data,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewEvent(eventType string, userID int64, data interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

// Publisher delivers events to connected users.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error {
	return nil
}
