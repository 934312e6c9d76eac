package messaging

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	bus := NewInMemoryEventBus(DefaultInMemoryEventBusConfig())
	t.Cleanup(func() { _ = bus.Close() })

	d := NewDispatcher(DispatcherConfig{
		EventBus: bus,
		RetryConfig: RetryConfig{
			MaxRetries:        2,
			InitialBackoff:    time.Millisecond,
			MaxBackoff:        5 * time.Millisecond,
			BackoffMultiplier: 2.0,
		},
		EnableDeadLetterQueue: true,
		DeadLetterQueueSize:   10,
	})
	t.Cleanup(func() { _ = d.Stop() })

	return d
}

func registeredEvent() shared.StudentRegisteredEvent {
	return shared.NewStudentRegisteredEvent("student-1", "2023000000", "Test Student", "info", 2023)
}

func TestDispatcherInvokesSyncHandler(t *testing.T) {
	d := newTestDispatcher(t)

	var calls int32
	err := d.RegisterSync(shared.EventStudentRegistered, "counter", func(event shared.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(registeredEvent()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDispatcherIgnoresUnsubscribedEvents(t *testing.T) {
	d := newTestDispatcher(t)

	var calls int32
	require.NoError(t, d.RegisterSync(shared.EventRuleCreated, "rules-only", func(event shared.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	require.NoError(t, d.Dispatch(registeredEvent()))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestDispatcherRejectsNilHandler(t *testing.T) {
	d := newTestDispatcher(t)

	err := d.RegisterSync(shared.EventStudentRegistered, "nil", nil)
	assert.Error(t, err)
}

func TestDispatcherRetriesUntilSuccess(t *testing.T) {
	d := newTestDispatcher(t)

	var attempts int32
	require.NoError(t, d.RegisterSync(shared.EventStudentRegistered, "flaky", func(event shared.Event) error {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return errors.New("transient")
		}
		return nil
	}))

	require.NoError(t, d.Dispatch(registeredEvent()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	assert.Zero(t, d.DeadLetterQueue().Size())
}

func TestDispatcherMovesExhaustedEventsToDeadLetterQueue(t *testing.T) {
	d := newTestDispatcher(t)

	var attempts int32
	require.NoError(t, d.RegisterSync(shared.EventStudentRegistered, "broken", func(event shared.Event) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent")
	}))

	err := d.Dispatch(registeredEvent())
	assert.Error(t, err)

	// MaxRetries=2 means three attempts total.
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))

	require.Equal(t, 1, d.DeadLetterQueue().Size())
	entry, ok := d.DeadLetterQueue().Pop()
	require.True(t, ok)
	assert.Equal(t, "broken", entry.HandlerName)
	assert.Equal(t, 3, entry.Attempts)
	assert.Equal(t, shared.EventStudentRegistered, entry.Event.EventType())
	assert.Zero(t, d.DeadLetterQueue().Size())
}

func TestDispatcherRecoveryMiddlewareTurnsPanicIntoError(t *testing.T) {
	d := newTestDispatcher(t)
	d.Use(RecoveryMiddleware(slog.Default()))

	require.NoError(t, d.RegisterHandler(shared.EventStudentRegistered, HandlerRegistration{
		Name:       "panicky",
		MaxRetries: 1,
		Handler: func(event shared.Event) error {
			panic("boom")
		},
	}))

	err := d.Dispatch(registeredEvent())
	assert.Error(t, err)
	assert.Equal(t, 1, d.DeadLetterQueue().Size())
}

func TestDispatcherReceivesEventsFromBus(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultInMemoryEventBusConfig())
	defer func() { _ = bus.Close() }()

	d := NewDispatcher(DefaultDispatcherConfig(bus))
	defer func() { _ = d.Stop() }()

	var calls int32
	require.NoError(t, d.RegisterSync(shared.EventStudentRegistered, "via-bus", func(event shared.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	require.NoError(t, d.Start())

	require.NoError(t, bus.Publish(registeredEvent()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDeadLetterQueueDropsOldestAtCapacity(t *testing.T) {
	q := NewDeadLetterQueue(2)

	q.Add(DeadLetterEntry{HandlerName: "first"})
	q.Add(DeadLetterEntry{HandlerName: "second"})
	q.Add(DeadLetterEntry{HandlerName: "third"})

	entries := q.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].HandlerName)
	assert.Equal(t, "third", entries[1].HandlerName)
}
