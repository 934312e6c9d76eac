// Package messaging implements the event bus behind the review and
// notification flows. It provides an in-memory bus for single-instance
// deployments and a Redis Pub/Sub bus for running several portal
// instances against one database.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ErrEventBusClosed is returned for operations on a closed bus.
var ErrEventBusClosed = errors.New("event bus is closed")

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus delivers events synchronously to subscribers in the
// same process. Retries and concurrency live in the dispatcher layered
// on top, so the bus itself stays a plain fan-out.
type InMemoryEventBus struct {
	mu     sync.RWMutex
	byType map[shared.EventType][]shared.EventHandler
	global []shared.EventHandler
	logger *slog.Logger
	closed bool
}

// InMemoryEventBusConfig configures the in-memory bus.
type InMemoryEventBusConfig struct {
	Logger *slog.Logger
}

// DefaultInMemoryEventBusConfig logs through slog.Default.
func DefaultInMemoryEventBusConfig() InMemoryEventBusConfig {
	return InMemoryEventBusConfig{}
}

func NewInMemoryEventBus(config InMemoryEventBusConfig) *InMemoryEventBus {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventBus{
		byType: make(map[shared.EventType][]shared.EventHandler),
		logger: logger,
	}
}

// Subscribe registers handler for one event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}

	b.byType[eventType] = append(b.byType[eventType], handler)
	b.logger.Debug("subscribed handler", "event_type", eventType)
	return nil
}

// SubscribeAll registers handler for every event; the dispatcher hooks
// in here.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}

	b.global = append(b.global, handler)
	b.logger.Debug("subscribed global handler")
	return nil
}

// Publish hands event to every matching subscriber. Handler errors are
// logged, not returned: a publisher must not fail because a listener
// did.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	handlers := make([]shared.EventHandler, 0, len(b.byType[event.EventType()])+len(b.global))
	handlers = append(handlers, b.byType[event.EventType()]...)
	handlers = append(handlers, b.global...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers for event", "event_type", event.EventType())
		return nil
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			b.logger.Error("handler error",
				"event_type", event.EventType(),
				"error", err,
			)
		}
	}
	return nil
}

// Close marks the bus closed; further subscribes and publishes fail.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		b.logger.Info("event bus closed")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REDIS EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// RedisMessage is one message off a Pub/Sub channel.
type RedisMessage struct {
	Channel string
	Payload string
	Err     error
}

// RedisClient is the Pub/Sub slice of Redis the bus needs. Satisfied by
// GoRedisClient and by fakes in tests.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message any) error
	Subscribe(ctx context.Context, channels ...string) (<-chan RedisMessage, error)
	Close() error
}

// RedisEventBus layers Redis Pub/Sub over an in-memory bus so a review
// outcome published on one portal instance reaches notification
// handlers on all of them. Self-published messages are filtered out by
// instance ID because they were already delivered locally.
type RedisEventBus struct {
	client     RedisClient
	localBus   *InMemoryEventBus
	channel    string
	instanceID string
	logger     *slog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
}

// RedisEventBusConfig configures the shared bus. ChannelName defaults
// to "merit-portal:events" and InstanceID to a fresh UUID.
type RedisEventBusConfig struct {
	Client         RedisClient
	ChannelName    string
	InstanceID     string
	LocalBusConfig InMemoryEventBusConfig
	Logger         *slog.Logger
}

func NewRedisEventBus(config RedisEventBusConfig) (*RedisEventBus, error) {
	if config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	channel := config.ChannelName
	if channel == "" {
		channel = "merit-portal:events"
	}
	instanceID := config.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := &RedisEventBus{
		client:     config.Client,
		localBus:   NewInMemoryEventBus(config.LocalBusConfig),
		channel:    channel,
		instanceID: instanceID,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}

	messages, err := bus.client.Subscribe(ctx, channel)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start subscriber: %w", err)
	}

	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		bus.readLoop(messages)
	}()

	return bus, nil
}

func (b *RedisEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	return b.localBus.Subscribe(eventType, handler)
}

func (b *RedisEventBus) SubscribeAll(handler shared.EventHandler) error {
	return b.localBus.SubscribeAll(handler)
}

// Publish broadcasts event on the Redis channel and delivers it locally.
// A Redis outage degrades to local-only delivery rather than failing the
// publish.
func (b *RedisEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrEventBusClosed
	}

	data, err := json.Marshal(wireEnvelope{
		InstanceID:  b.instanceID,
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := b.client.Publish(b.ctx, b.channel, string(data)); err != nil {
		b.logger.Error("failed to publish to redis", "error", err)
	}
	return b.localBus.Publish(event)
}

func (b *RedisEventBus) readLoop(messages <-chan RedisMessage) {
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if msg.Err != nil {
				b.logger.Error("redis subscription error", "error", msg.Err)
				continue
			}
			b.deliverRemote(msg)
		}
	}
}

func (b *RedisEventBus) deliverRemote(msg RedisMessage) {
	var envelope wireEnvelope
	if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
		b.logger.Error("failed to unmarshal event", "error", err)
		return
	}
	if envelope.InstanceID == b.instanceID {
		return
	}

	event := &remoteEvent{
		eventType:   envelope.EventType,
		aggregateID: envelope.AggregateID,
		occurredAt:  envelope.OccurredAt,
		payload:     envelope.Payload,
	}
	if err := b.localBus.Publish(event); err != nil {
		b.logger.Error("failed to process remote event", "error", err)
	}
}

// Close stops the subscriber loop and closes the local bus. The Redis
// client itself is owned by the caller.
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()

	if err := b.localBus.Close(); err != nil {
		b.logger.Error("failed to close local bus", "error", err)
	}
	b.logger.Info("redis event bus closed")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRE FORMAT
// ══════════════════════════════════════════════════════════════════════════════

// wireEnvelope is the JSON shape an event takes on the Redis channel.
type wireEnvelope struct {
	InstanceID  string           `json:"instance_id"`
	EventType   shared.EventType `json:"event_type"`
	AggregateID string           `json:"aggregate_id"`
	OccurredAt  time.Time        `json:"occurred_at"`
	Payload     map[string]any   `json:"payload"`
}

// remoteEvent rehydrates an event received from another instance.
// Handlers needing typed fields read them out of Payload.
type remoteEvent struct {
	eventType   shared.EventType
	aggregateID string
	occurredAt  time.Time
	payload     map[string]any
}

func (e *remoteEvent) EventType() shared.EventType { return e.eventType }
func (e *remoteEvent) AggregateID() string         { return e.aggregateID }
func (e *remoteEvent) OccurredAt() time.Time       { return e.occurredAt }
func (e *remoteEvent) Payload() map[string]any     { return e.payload }

// ══════════════════════════════════════════════════════════════════════════════
// GO-REDIS ADAPTER
// ══════════════════════════════════════════════════════════════════════════════

// GoRedisClient adapts *goredis.Client to RedisClient.
type GoRedisClient struct {
	client *goredis.Client
}

func NewGoRedisClient(client *goredis.Client) *GoRedisClient {
	return &GoRedisClient{client: client}
}

func (c *GoRedisClient) Publish(ctx context.Context, channel string, message any) error {
	return c.client.Publish(ctx, channel, message).Err()
}

// Subscribe opens the Pub/Sub subscription and pumps messages until ctx
// is done. The subscription is confirmed before returning so a broken
// connection surfaces here instead of as a silent dead channel.
func (c *GoRedisClient) Subscribe(ctx context.Context, channels ...string) (<-chan RedisMessage, error) {
	sub := c.client.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan RedisMessage)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- RedisMessage{Channel: msg.Channel, Payload: msg.Payload}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (c *GoRedisClient) Close() error {
	return c.client.Close()
}
