package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"safyra/internal/shared/biztime"
	"safyra/internal/shared/goroutine"
	"safyra/internal/shared/logger"
)

const historyRefreshChannel = "safyra:history:refresh"

// refreshEvent is the wire form of a relayed invalidation signal.
type refreshEvent struct {
	Timestamp  int64  `json:"timestamp"`
	InstanceID string `json:"instance_id"` // Source instance ID to avoid self-delivery
}

// RedisHistoryRelay bridges a local HistoryBus across instances over Redis
// Pub/Sub. Local publishes are forwarded to Redis; remote publishes are
// replayed onto the local bus. Events from this instance are filtered out
// so subscribers fire exactly once per publish.
type RedisHistoryRelay struct {
	client     *redis.Client
	local      HistoryBus
	logger     logger.Interface
	instanceID string
}

func NewRedisHistoryRelay(client *redis.Client, local HistoryBus, log logger.Interface) *RedisHistoryRelay {
	return &RedisHistoryRelay{
		client:     client,
		local:      local,
		logger:     log,
		instanceID: uuid.NewString(),
	}
}

// Subscribe delegates to the local bus.
func (r *RedisHistoryRelay) Subscribe(fn func()) func() {
	return r.local.Subscribe(fn)
}

// Publish fires the local bus and forwards the signal to other instances.
// A Redis failure never blocks or fails the local publish.
func (r *RedisHistoryRelay) Publish() {
	r.local.Publish()

	event := refreshEvent{
		Timestamp:  biztime.NowUTC().Unix(),
		InstanceID: r.instanceID,
	}
	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Errorw("failed to marshal history refresh event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Publish(ctx, historyRefreshChannel, data).Err(); err != nil {
		r.logger.Warnw("failed to relay history refresh to Redis", "error", err)
	}
}

// Run subscribes to the relay channel and replays remote refresh signals
// onto the local bus until ctx is cancelled. It reconnects with exponential
// backoff on subscription failure.
func (r *RedisHistoryRelay) Run(ctx context.Context) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := r.subscribe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.logger.Warnw("history relay disconnected, reconnecting",
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (r *RedisHistoryRelay) subscribe(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, historyRefreshChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", historyRefreshChannel, err)
	}

	r.logger.Infow("subscribed to history refresh channel", "channel", historyRefreshChannel)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			r.logger.Infow("history relay stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				r.logger.Warnw("history relay channel closed")
				return nil
			}

			var event refreshEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Warnw("failed to unmarshal history refresh event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// Skip events from own instance to avoid duplicate local delivery
			if event.InstanceID == r.instanceID {
				continue
			}

			goroutine.SafeGo(r.logger, "history-relay-replay", func() {
				r.local.Publish()
			})
		}
	}
}
