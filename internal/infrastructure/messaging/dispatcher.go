package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DISPATCHER
// Notification fan-out must survive a flaky handler: the dispatcher retries
// with exponential backoff and parks events it cannot deliver in a dead
// letter queue instead of losing them.
// ══════════════════════════════════════════════════════════════════════════════

const (
	defaultWorkerPoolSize = 10
	defaultHandlerTimeout = 30 * time.Second
)

// HandlerRegistration describes one subscription. MaxRetries counts
// retries after the first attempt; zero means "use the dispatcher
// default". A zero Timeout gets the 30s default.
type HandlerRegistration struct {
	Name       string
	Handler    shared.EventHandler
	Async      bool
	MaxRetries int
	Timeout    time.Duration
}

// RetryConfig shapes the backoff between delivery attempts.
type RetryConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	EventBus              shared.EventBus
	WorkerPoolSize        int
	RetryConfig           RetryConfig
	EnableDeadLetterQueue bool
	DeadLetterQueueSize   int
	Logger                *slog.Logger
}

// DefaultDispatcherConfig retries three times with 100ms..5s backoff and
// keeps up to a thousand undeliverable events.
func DefaultDispatcherConfig(eventBus shared.EventBus) DispatcherConfig {
	return DispatcherConfig{
		EventBus:       eventBus,
		WorkerPoolSize: defaultWorkerPoolSize,
		RetryConfig: RetryConfig{
			MaxRetries:        3,
			InitialBackoff:    100 * time.Millisecond,
			MaxBackoff:        5 * time.Second,
			BackoffMultiplier: 2.0,
		},
		EnableDeadLetterQueue: true,
		DeadLetterQueueSize:   1000,
	}
}

// Dispatcher fans events out from the bus to registered handlers,
// applying middleware, per-handler timeouts, and bounded retries.
type Dispatcher struct {
	mu          sync.RWMutex
	bus         shared.EventBus
	subs        map[shared.EventType][]HandlerRegistration
	middlewares []Middleware
	retry       RetryConfig
	dlq         *DeadLetterQueue
	logger      *slog.Logger
	slots       chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewDispatcher(config DispatcherConfig) *Dispatcher {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	poolSize := config.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = defaultWorkerPoolSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		bus:    config.EventBus,
		subs:   make(map[shared.EventType][]HandlerRegistration),
		retry:  config.RetryConfig,
		logger: logger,
		slots:  make(chan struct{}, poolSize),
		ctx:    ctx,
		cancel: cancel,
	}
	if config.EnableDeadLetterQueue {
		d.dlq = NewDeadLetterQueue(config.DeadLetterQueueSize)
	}
	return d
}

// ─────────────────────────────────────────────────────────────────────────────
// Registration
// ─────────────────────────────────────────────────────────────────────────────

// RegisterHandler subscribes reg to eventType, filling in defaults for
// missing name, retry budget and timeout.
func (d *Dispatcher) RegisterHandler(eventType shared.EventType, reg HandlerRegistration) error {
	if reg.Handler == nil {
		return errors.New("handler cannot be nil")
	}
	if reg.Name == "" {
		reg.Name = fmt.Sprintf("handler-%d", time.Now().UnixNano())
	}
	if reg.MaxRetries <= 0 {
		reg.MaxRetries = d.retry.MaxRetries
	}
	if reg.Timeout <= 0 {
		reg.Timeout = defaultHandlerTimeout
	}

	d.mu.Lock()
	d.subs[eventType] = append(d.subs[eventType], reg)
	d.mu.Unlock()

	d.logger.Debug("registered handler",
		"event_type", eventType,
		"handler_name", reg.Name,
		"async", reg.Async,
	)
	return nil
}

// Register subscribes an async handler with default retry settings.
func (d *Dispatcher) Register(eventType shared.EventType, name string, handler shared.EventHandler) error {
	return d.RegisterHandler(eventType, HandlerRegistration{Name: name, Handler: handler, Async: true})
}

// RegisterSync subscribes a handler whose error propagates to the
// publisher.
func (d *Dispatcher) RegisterSync(eventType shared.EventType, name string, handler shared.EventHandler) error {
	return d.RegisterHandler(eventType, HandlerRegistration{Name: name, Handler: handler})
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// Middleware wraps handler execution; the first middleware added runs
// outermost.
type Middleware func(shared.EventHandler) shared.EventHandler

func (d *Dispatcher) Use(middleware Middleware) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middlewares = append(d.middlewares, middleware)
}

// RecoveryMiddleware converts a handler panic into an error so one bad
// handler cannot take the dispatcher down.
func RecoveryMiddleware(logger *slog.Logger) Middleware {
	return func(next shared.EventHandler) shared.EventHandler {
		return func(event shared.Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("handler panic recovered",
						"event_type", event.EventType(),
						"panic", r,
						"stack", string(debug.Stack()),
					)
					err = fmt.Errorf("handler panic: %v", r)
				}
			}()
			return next(event)
		}
	}
}

// LoggingMiddleware records every handler invocation with its outcome
// and latency.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next shared.EventHandler) shared.EventHandler {
		return func(event shared.Event) error {
			start := time.Now()
			err := next(event)
			elapsed := time.Since(start)

			if err != nil {
				logger.Error("handler failed",
					"event_type", event.EventType(),
					"aggregate_id", event.AggregateID(),
					"duration", elapsed,
					"error", err,
				)
				return err
			}
			logger.Debug("handler completed",
				"event_type", event.EventType(),
				"aggregate_id", event.AggregateID(),
				"duration", elapsed,
			)
			return nil
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Dispatching
// ─────────────────────────────────────────────────────────────────────────────

// Start hooks the dispatcher onto the bus: every published event flows
// through dispatch.
func (d *Dispatcher) Start() error {
	return d.bus.SubscribeAll(func(event shared.Event) error {
		return d.dispatch(event)
	})
}

// Stop cancels in-flight deliveries.
func (d *Dispatcher) Stop() error {
	d.cancel()
	d.logger.Info("dispatcher stopped")
	return nil
}

// Dispatch delivers event to its handlers directly, bypassing the bus.
// The dead-letter retry job uses it to replay parked events.
func (d *Dispatcher) Dispatch(event shared.Event) error {
	return d.dispatch(event)
}

// DeadLetterQueue exposes the queue of exhausted events; nil when the
// queue is disabled.
func (d *Dispatcher) DeadLetterQueue() *DeadLetterQueue {
	return d.dlq
}

// dispatch runs every subscription for the event. Sync handler errors
// join into the returned error; async handlers run concurrently but
// dispatch still waits for them so Stop has nothing dangling.
func (d *Dispatcher) dispatch(event shared.Event) error {
	d.mu.RLock()
	regs := d.subs[event.EventType()]
	middlewares := d.middlewares
	d.mu.RUnlock()

	if len(regs) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		syncErrs []error
	)
	for _, reg := range regs {
		if reg.Async {
			wg.Add(1)
			go func(r HandlerRegistration) {
				defer wg.Done()
				_ = d.deliver(event, r, middlewares)
			}(reg)
			continue
		}
		if err := d.deliver(event, reg, middlewares); err != nil {
			errMu.Lock()
			syncErrs = append(syncErrs, err)
			errMu.Unlock()
		}
	}
	wg.Wait()

	if len(syncErrs) > 0 {
		return fmt.Errorf("sync handler errors: %v", syncErrs)
	}
	return nil
}

// deliver pushes event through the middleware chain with retries,
// parking it in the dead letter queue if every attempt fails.
func (d *Dispatcher) deliver(event shared.Event, reg HandlerRegistration, middlewares []Middleware) error {
	select {
	case d.slots <- struct{}{}:
		defer func() { <-d.slots }()
	case <-d.ctx.Done():
		return d.ctx.Err()
	}

	handler := reg.Handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	attempts := reg.MaxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := d.backoff(attempt)
			d.logger.Debug("retrying handler",
				"handler", reg.Name,
				"attempt", attempt,
				"backoff", backoff,
			)
			select {
			case <-d.ctx.Done():
				return d.ctx.Err()
			case <-time.After(backoff):
			}
		}

		if lastErr = d.runWithTimeout(handler, event, reg.Timeout); lastErr == nil {
			return nil
		}
		d.logger.Warn("handler attempt failed",
			"handler", reg.Name,
			"attempt", attempt,
			"error", lastErr,
		)
	}

	if d.dlq != nil {
		d.dlq.Add(DeadLetterEntry{
			Event:       event,
			HandlerName: reg.Name,
			Error:       lastErr,
			Attempts:    attempts,
			FailedAt:    time.Now(),
		})
	}
	return fmt.Errorf("handler %s failed after %d attempts: %w", reg.Name, attempts, lastErr)
}

func (d *Dispatcher) runWithTimeout(handler shared.EventHandler, event shared.Event, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- handler(event) }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("handler timeout after %v", timeout)
	case <-d.ctx.Done():
		return d.ctx.Err()
	}
}

// backoff is InitialBackoff * Multiplier^(attempt-1), capped at
// MaxBackoff.
func (d *Dispatcher) backoff(attempt int) time.Duration {
	delay := float64(d.retry.InitialBackoff)
	for i := 1; i < attempt; i++ {
		delay *= d.retry.BackoffMultiplier
	}
	if limit := float64(d.retry.MaxBackoff); delay > limit {
		delay = limit
	}
	return time.Duration(delay)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEAD LETTER QUEUE
// ══════════════════════════════════════════════════════════════════════════════

// DeadLetterEntry records one event a handler never managed to process.
type DeadLetterEntry struct {
	Event       shared.Event
	HandlerName string
	Error       error
	Attempts    int
	FailedAt    time.Time
}

// DeadLetterQueue is a bounded FIFO of exhausted events. At capacity the
// oldest entry is discarded for the new one.
type DeadLetterQueue struct {
	mu      sync.Mutex
	entries []DeadLetterEntry
	maxSize int
}

func NewDeadLetterQueue(maxSize int) *DeadLetterQueue {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &DeadLetterQueue{maxSize: maxSize}
}

func (q *DeadLetterQueue) Add(entry DeadLetterEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) >= q.maxSize {
		q.entries = q.entries[1:]
	}
	q.entries = append(q.entries, entry)
}

// Pop removes the oldest entry, reporting false on an empty queue.
func (q *DeadLetterQueue) Pop() (DeadLetterEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return DeadLetterEntry{}, false
	}
	head := q.entries[0]
	q.entries = q.entries[1:]
	return head, true
}

// Entries copies the queue contents, oldest first.
func (q *DeadLetterQueue) Entries() []DeadLetterEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]DeadLetterEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *DeadLetterQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
