package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one decoded event. A returned error leaves the message
// pending so it is retried once it has been idle for ClaimMinIdle.
type Handler func(ctx context.Context, event Event) error

var errMalformedMessage = errors.New("malformed stream message")

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
	ClaimMinIdle  time.Duration
}

// Subscriber consumes a Redis stream through a consumer group.
type Subscriber struct {
	client *redis.Client
	cfg    SubscriberConfig
}

func NewSubscriber(client *redis.Client, cfg SubscriberConfig) *Subscriber {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 10
	}
	if cfg.BlockDuration == 0 {
		cfg.BlockDuration = 5 * time.Second
	}
	if cfg.ClaimMinIdle == 0 {
		cfg.ClaimMinIdle = 30 * time.Second
	}
	return &Subscriber{client: client, cfg: cfg}
}

// Start blocks until ctx is done. Each round first retries messages left
// pending by a failed handler, then waits for new ones.
func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.ensureGroup(ctx); err != nil {
		return err
	}
	log := slog.With("stream", s.cfg.Stream, "group", s.cfg.Group, "consumer", s.cfg.Consumer)
	log.Info("subscriber started")

	for ctx.Err() == nil {
		if err := s.poll(ctx); err != nil && ctx.Err() == nil {
			log.Error("stream poll failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}

	log.Info("subscriber stopping")
	return ctx.Err()
}

func (s *Subscriber) ensureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.cfg.Stream, s.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (s *Subscriber) poll(ctx context.Context) error {
	stale, _, err := s.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   s.cfg.Stream,
		Group:    s.cfg.Group,
		Consumer: s.cfg.Consumer,
		MinIdle:  s.cfg.ClaimMinIdle,
		Start:    "0-0",
		Count:    s.cfg.BatchSize,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to claim pending messages: %w", err)
	}
	s.dispatch(ctx, stale)

	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.cfg.Group,
		Consumer: s.cfg.Consumer,
		Streams:  []string{s.cfg.Stream, ">"},
		Count:    s.cfg.BatchSize,
		Block:    s.cfg.BlockDuration,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}
	for _, stream := range streams {
		s.dispatch(ctx, stream.Messages)
	}
	return nil
}

func (s *Subscriber) dispatch(ctx context.Context, messages []redis.XMessage) {
	for _, msg := range messages {
		event, err := decodeMessage(msg)
		if err == nil {
			err = s.cfg.Handler(ctx, event)
		}
		// a malformed message will never decode, so it is acked and dropped
		if err != nil && !errors.Is(err, errMalformedMessage) {
			slog.WarnContext(ctx, "event handler failed", "id", msg.ID, "error", err)
			continue
		}
		if err != nil {
			slog.WarnContext(ctx, "dropping malformed message", "id", msg.ID, "error", err)
		}
		if err := s.client.XAck(ctx, s.cfg.Stream, s.cfg.Group, msg.ID).Err(); err != nil {
			slog.WarnContext(ctx, "failed to ack message", "id", msg.ID, "error", err)
		}
	}
}

func decodeMessage(msg redis.XMessage) (Event, error) {
	var event Event
	raw, ok := msg.Values["event"].(string)
	if !ok {
		return event, fmt.Errorf("%w: no event field", errMalformedMessage)
	}
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return event, fmt.Errorf("%w: %v", errMalformedMessage, err)
	}
	return event, nil
}
