package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	events   []Event
	fetchErr error
}

func (f *fakeStore) Insert(_ context.Context, eventType string, hackathonID uuid.UUID, payload json.RawMessage, createdAt time.Time) error {
	f.events = append(f.events, Event{
		ID:          uuid.New(),
		EventType:   eventType,
		HackathonID: hackathonID,
		Payload:     payload,
		CreatedAt:   createdAt,
	})
	return nil
}

func (f *fakeStore) FetchUnsent(_ context.Context, limit int) ([]Event, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []Event
	for _, e := range f.events {
		if e.SentAt == nil {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].SentAt = &sentAt
			return nil
		}
	}
	return errors.New("event not found")
}

func (f *fakeStore) unsentCount() int {
	n := 0
	for _, e := range f.events {
		if e.SentAt == nil {
			n++
		}
	}
	return n
}

type fakePublisher struct {
	published []Event
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, event Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func testConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: time.Second,
		BatchSize:    10,
		MaxRetries:   0,
		RetryDelay:   time.Millisecond,
	}
}

func TestRecorderInsertsUnsentEvent(t *testing.T) {
	store := &fakeStore{}
	clock := clockwork.NewFakeClock()
	rec := NewRecorder(store, clock)

	hackathonID := uuid.New()
	err := rec.Record(context.Background(), "registration.individual.created", hackathonID, map[string]string{"k": "v"})
	require.NoError(t, err)

	require.Len(t, store.events, 1)
	e := store.events[0]
	assert.Equal(t, "registration.individual.created", e.EventType)
	assert.Equal(t, hackathonID, e.HackathonID)
	assert.JSONEq(t, `{"k":"v"}`, string(e.Payload))
	assert.Nil(t, e.SentAt)
	assert.Equal(t, clock.Now().UTC(), e.CreatedAt)
}

func TestProcessBatchMarksPublishedEventsSent(t *testing.T) {
	store := &fakeStore{}
	clock := clockwork.NewFakeClock()
	rec := NewRecorder(store, clock)
	pub := &fakePublisher{}

	for i := 0; i < 3; i++ {
		require.NoError(t, rec.Record(context.Background(), "registration.team.created", uuid.New(), nil))
	}

	w := NewWorker(store, pub, testConfig(), clock)
	w.ProcessBatch(context.Background())

	assert.Len(t, pub.published, 3)
	assert.Zero(t, store.unsentCount())
}

func TestProcessBatchKeepsFailedEventsUnsent(t *testing.T) {
	store := &fakeStore{}
	clock := clockwork.NewFakeClock()
	rec := NewRecorder(store, clock)
	pub := &fakePublisher{err: errors.New("broker down")}

	require.NoError(t, rec.Record(context.Background(), "registration.team.created", uuid.New(), nil))

	w := NewWorker(store, pub, testConfig(), clock)
	w.ProcessBatch(context.Background())

	assert.Equal(t, 1, store.unsentCount())

	// Next batch delivers once the broker recovers.
	pub.err = nil
	w.ProcessBatch(context.Background())
	assert.Zero(t, store.unsentCount())
	assert.Len(t, pub.published, 1)
}

func TestProcessBatchRespectsBatchSize(t *testing.T) {
	store := &fakeStore{}
	clock := clockwork.NewFakeClock()
	rec := NewRecorder(store, clock)
	pub := &fakePublisher{}

	for i := 0; i < 5; i++ {
		require.NoError(t, rec.Record(context.Background(), "registration.individual.created", uuid.New(), nil))
	}

	cfg := testConfig()
	cfg.BatchSize = 2
	w := NewWorker(store, pub, cfg, clock)

	w.ProcessBatch(context.Background())
	assert.Equal(t, 3, store.unsentCount())

	w.ProcessBatch(context.Background())
	w.ProcessBatch(context.Background())
	assert.Zero(t, store.unsentCount())
}

func TestWorkerStartStop(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	w := NewWorker(store, pub, testConfig(), clockwork.NewRealClock())

	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()), "double start is rejected")

	require.NoError(t, w.Stop())
	assert.Error(t, w.Stop(), "double stop is rejected")
}
