package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements outbox event data access
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new outbox repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes a new unsent event row
func (r *Repository) Insert(ctx context.Context, eventType string, hackathonID uuid.UUID, payload json.RawMessage, createdAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO outbox_events (id, event_type, hackathon_id, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), eventType, hackathonID, payload, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// FetchUnsent returns the oldest unsent events up to limit
func (r *Repository) FetchUnsent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, event_type, hackathon_id, payload, created_at, sent_at
		 FROM outbox_events
		 WHERE sent_at IS NULL
		 ORDER BY created_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EventType, &e.HackathonID, &e.Payload, &e.CreatedAt, &e.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outbox events: %w", err)
	}
	return events, nil
}

// MarkSent stamps the event as delivered
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE outbox_events SET sent_at = $2 WHERE id = $1`, id, sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}
