package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// WorkerConfig controls the outbox polling loop
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	RetryDelay   time.Duration
}

// DefaultWorkerConfig returns the production defaults
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// WorkerStore is the slice of the repository the worker reads and stamps
type WorkerStore interface {
	FetchUnsent(ctx context.Context, limit int) ([]Event, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
}

// Worker polls the outbox table and delivers unsent events to the
// publisher. Events that fail all retries stay unsent and are retried on
// the next tick.
type Worker struct {
	store     WorkerStore
	publisher EventPublisher
	config    WorkerConfig
	clock     clockwork.Clock

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates a new outbox worker
func NewWorker(store WorkerStore, publisher EventPublisher, cfg WorkerConfig, clock clockwork.Clock) *Worker {
	return &Worker{
		store:     store,
		publisher: publisher,
		config:    cfg,
		clock:     clock,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the polling loop
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int("batch_size", w.config.BatchSize).
		Msg("outbox worker started")
	return nil
}

// Stop halts the loop and waits for the in-flight batch to finish
func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// First pass immediately so a restart drains the backlog without
	// waiting a full interval.
	w.ProcessBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.Chan():
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch fetches one batch of unsent events, publishes each, and
// stamps the successes.
func (w *Worker) ProcessBatch(ctx context.Context) {
	start := w.clock.Now()

	events, err := w.store.FetchUnsent(ctx, w.config.BatchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch unsent outbox events")
		return
	}
	if len(events) == 0 {
		return
	}

	sent := 0
	for _, event := range events {
		if err := w.publishWithRetry(ctx, event); err != nil {
			eventsFailed.WithLabelValues(event.EventType).Inc()
			log.Error().Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to publish outbox event")
			continue
		}
		if err := w.store.MarkSent(ctx, event.ID, w.clock.Now().UTC()); err != nil {
			log.Error().Err(err).
				Str("event_id", event.ID.String()).
				Msg("failed to mark outbox event as sent")
			continue
		}
		eventsPublished.WithLabelValues(event.EventType).Inc()
		sent++
	}

	batchDuration.Observe(w.clock.Since(start).Seconds())
	log.Info().
		Int("total", len(events)).
		Int("sent", sent).
		Msg("processed outbox batch")
}

func (w *Worker) publishWithRetry(ctx context.Context, event Event) error {
	var lastErr error
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.clock.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Warn().Err(err).
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish outbox event, retrying")
			continue
		}
		return nil
	}
	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
