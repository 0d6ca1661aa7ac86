package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// StreamName is the JetStream stream holding registration events
const StreamName = "HACKHUB_EVENTS"

// SubjectPrefix is the prefix under which all events publish. The full
// subject is hackhub.events.<event_type>.
const SubjectPrefix = "hackhub.events"

// envelope is the wire shape delivered to the broker
type envelope struct {
	EventID     string          `json:"eventId"`
	EventType   string          `json:"eventType"`
	HackathonID string          `json:"hackathonId"`
	Timestamp   string          `json:"timestamp"`
	Payload     json.RawMessage `json:"payload"`
}

// JetStreamPublisher delivers events to a NATS JetStream stream
type JetStreamPublisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewJetStreamPublisher connects to NATS and ensures the event stream
// exists.
func NewJetStreamPublisher(ctx context.Context, url string) (*JetStreamPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("hackhub-outbox"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPrefix + ".>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", StreamName, err)
	}

	return &JetStreamPublisher{nc: nc, js: js}, nil
}

// Publish delivers one event to the stream
func (p *JetStreamPublisher) Publish(ctx context.Context, event Event) error {
	subject := fmt.Sprintf("%s.%s", SubjectPrefix, event.EventType)

	data, err := json.Marshal(envelope{
		EventID:     event.ID.String(),
		EventType:   event.EventType,
		HackathonID: event.HackathonID.String(),
		Timestamp:   event.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		Payload:     event.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Conn exposes the underlying connection for subscribers sharing it
func (p *JetStreamPublisher) Conn() *nats.Conn {
	return p.nc
}

// Close drains the connection
func (p *JetStreamPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("failed to drain NATS connection")
	}
}

// NoopPublisher drops events, used when no broker is configured. The
// worker still marks them sent, so the outbox table does not grow
// unbounded on broker-less deployments.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
