package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one row of the transactional outbox. Events are written in the
// same store as the state change they describe and delivered asynchronously
// by the worker.
type Event struct {
	ID          uuid.UUID       `json:"id"`
	EventType   string          `json:"event_type"`
	HackathonID uuid.UUID       `json:"hackathon_id"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
	SentAt      *time.Time      `json:"sent_at,omitempty"`
}

// EventPublisher delivers outbox events to the message broker
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
