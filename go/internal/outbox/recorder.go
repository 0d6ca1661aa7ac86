package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// EventStore is the slice of the repository the recorder writes through
type EventStore interface {
	Insert(ctx context.Context, eventType string, hackathonID uuid.UUID, payload json.RawMessage, createdAt time.Time) error
}

// Recorder writes domain events into the outbox table. It is handed to the
// apps that emit events so they never talk to the broker directly.
type Recorder struct {
	store EventStore
	clock clockwork.Clock
}

// NewRecorder creates a new outbox recorder
func NewRecorder(store EventStore, clock clockwork.Clock) *Recorder {
	return &Recorder{store: store, clock: clock}
}

// Record serializes the payload and inserts an unsent event row
func (r *Recorder) Record(ctx context.Context, eventType string, hackathonID uuid.UUID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return r.store.Insert(ctx, eventType, hackathonID, data, r.clock.Now().UTC())
}
