package messaging

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

func newSyncBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = false
	return NewInMemoryEventBus(cfg)
}

func TestInMemoryEventBus_PublishToTypedSubscriber(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var received []shared.Event
	err := bus.Subscribe(shared.EventStandingChanged, func(e shared.Event) error {
		received = append(received, e)
		return nil
	})
	require.NoError(t, err)

	event := shared.NewStandingChangedEvent("student-1", "regular", "probation", 1.5)
	require.NoError(t, bus.Publish(event))

	require.Len(t, received, 1)
	assert.Equal(t, shared.EventStandingChanged, received[0].EventType())
	assert.Equal(t, "student-1", received[0].AggregateID())
}

func TestInMemoryEventBus_TypedSubscriberIgnoresOtherTypes(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var calls int
	require.NoError(t, bus.Subscribe(shared.EventGradeRecorded, func(e shared.Event) error {
		calls++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStandingChangedEvent("student-1", "regular", "honours", 4.0)))
	assert.Zero(t, calls)
}

func TestInMemoryEventBus_SubscribeAll(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var calls int
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		calls++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStandingChangedEvent("s", "regular", "probation", 1.5)))
	require.NoError(t, bus.Publish(shared.NewGradeRecordedEvent("s", "r", "c", 0.8)))

	assert.Equal(t, 2, calls)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var secondCalled bool
	require.NoError(t, bus.Subscribe(shared.EventStandingChanged, func(e shared.Event) error {
		return errors.New("boom")
	}))
	require.NoError(t, bus.Subscribe(shared.EventStandingChanged, func(e shared.Event) error {
		secondCalled = true
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStandingChangedEvent("s", "regular", "probation", 1.5)))
	assert.True(t, secondCalled)
}

func TestInMemoryEventBus_AsyncDelivery(t *testing.T) {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = true
	cfg.WorkerPoolSize = 4
	bus := NewInMemoryEventBus(cfg)

	const events = 20
	var delivered atomic.Int64
	var wg sync.WaitGroup
	wg.Add(events)

	require.NoError(t, bus.Subscribe(shared.EventGradeRecorded, func(e shared.Event) error {
		delivered.Add(1)
		wg.Done()
		return nil
	}))

	for i := 0; i < events; i++ {
		require.NoError(t, bus.Publish(shared.NewGradeRecordedEvent("s", "r", "c", 0.5)))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("async handlers did not finish in time")
	}

	assert.Equal(t, int64(events), delivered.Load())
	require.NoError(t, bus.Close())
}

func TestInMemoryEventBus_ClosedBusRejectsOperations(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewStandingChangedEvent("s", "regular", "probation", 1.5))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventStandingChanged, func(e shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	// Повторный Close безопасен.
	assert.NoError(t, bus.Close())
}

func TestInMemoryEventBus_Metrics(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventStandingChanged, func(e shared.Event) error {
		return nil
	}))
	require.NoError(t, bus.Subscribe(shared.EventStandingChanged, func(e shared.Event) error {
		return errors.New("boom")
	}))

	require.NoError(t, bus.Publish(shared.NewStandingChangedEvent("s", "regular", "probation", 1.5)))

	snapshot := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snapshot.TotalPublished)
	assert.Equal(t, int64(2), snapshot.TotalHandlerExecs)
	assert.Equal(t, 0.5, snapshot.HandlerSuccessRate)
}
