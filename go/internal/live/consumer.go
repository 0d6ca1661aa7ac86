package live

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// ConsumerConfig holds JetStream consumer settings for the live feed
type ConsumerConfig struct {
	StreamName    string
	ConsumerName  string
	SubjectFilter string
	MaxDeliver    int
	AckWait       time.Duration
	MaxAckPending int
}

// DefaultConsumerConfig returns the production defaults. The stream and
// prefix match what the outbox publisher creates.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		StreamName:    "HACKHUB_EVENTS",
		ConsumerName:  "hackhub-live",
		SubjectFilter: "hackhub.events.>",
		MaxDeliver:    5,
		AckWait:       30 * time.Second,
		MaxAckPending: 100,
	}
}

// eventEnvelope is the slice of the published message the feed needs
type eventEnvelope struct {
	HackathonID string `json:"hackathonId"`
}

// Consumer reads registration events from JetStream and rebroadcasts them
// to WebSocket subscribers.
type Consumer struct {
	manager  *ConnectionManager
	consumer jetstream.Consumer
	config   ConsumerConfig
}

// NewConsumer binds a durable consumer on an existing NATS connection
func NewConsumer(ctx context.Context, nc *nats.Conn, manager *ConnectionManager, config ConsumerConfig) (*Consumer, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := js.Stream(ctx, config.StreamName)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream %s: %w", config.StreamName, err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          config.ConsumerName,
		Durable:       config.ConsumerName,
		Description:   "live feed WebSocket consumer",
		FilterSubject: config.SubjectFilter,
		DeliverPolicy: jetstream.DeliverNewPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    config.MaxDeliver,
		AckWait:       config.AckWait,
		MaxAckPending: config.MaxAckPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %s: %w", config.ConsumerName, err)
	}

	return &Consumer{manager: manager, consumer: consumer, config: config}, nil
}

// Start consumes events until the context ends
func (c *Consumer) Start(ctx context.Context) error {
	log.Info().
		Str("stream", c.config.StreamName).
		Str("consumer", c.config.ConsumerName).
		Msg("live feed consumer started")

	consumeCtx, err := c.consumer.Consume(func(msg jetstream.Msg) {
		if err := c.process(msg); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject()).Msg("failed to process event")
			if err := msg.Nak(); err != nil {
				log.Error().Err(err).Msg("failed to NAK message")
			}
			return
		}
		if err := msg.Ack(); err != nil {
			log.Error().Err(err).Msg("failed to ACK message")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	defer consumeCtx.Stop()

	<-ctx.Done()
	log.Info().Msg("live feed consumer shutting down")
	return nil
}

func (c *Consumer) process(msg jetstream.Msg) error {
	var env eventEnvelope
	if err := json.Unmarshal(msg.Data(), &env); err != nil {
		return fmt.Errorf("failed to parse event envelope: %w", err)
	}

	hackathonID, err := uuid.Parse(env.HackathonID)
	if err != nil {
		return fmt.Errorf("invalid hackathon id in envelope: %w", err)
	}

	c.manager.Broadcast(hackathonID, msg.Data())
	return nil
}
