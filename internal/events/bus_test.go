package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(NewEventLog(setupTestDB(t)), nil)
	defer bus.Close()

	ch := bus.Subscribe("test.created", 10)

	e := &testEvent{BaseEvent: NewBaseEvent("test.created", EntityMovie, 1), Message: "hello"}
	require.NoError(t, bus.Publish(context.Background(), e))

	select {
	case received := <-ch:
		assert.Equal(t, "test.created", received.EventType())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(10)
	require.NoError(t, bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("test.first", EntityMovie, 1)}))
	require.NoError(t, bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("test.second", EntityShow, 2)}))

	var got []string
	timeout := time.After(time.Second)
	for len(got) < 2 {
		select {
		case e := <-ch:
			got = append(got, e.EventType())
		case <-timeout:
			t.Fatalf("timeout after %d events", len(got))
		}
	}
	assert.Equal(t, []string{"test.first", "test.second"}, got)
}

func TestBus_EphemeralNotPersisted(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))
	bus := NewBus(log, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(10)
	op := Operation{OperationID: "op-1", Kind: KindSeason}
	require.NoError(t, bus.Publish(ctx, &ImportProgressed{BaseEvent: NewBaseEvent(EventImportProgressed, EntityShow, 1), Operation: op, Percent: 40}))
	require.NoError(t, bus.Publish(ctx, &ImportCompleted{BaseEvent: NewBaseEvent(EventImportCompleted, EntityShow, 1), Operation: op}))

	assert.Equal(t, EventImportProgressed, (<-ch).EventType(), "ephemeral events are still delivered")
	assert.Equal(t, EventImportCompleted, (<-ch).EventType())

	stored, err := log.ForOperation(ctx, "op-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, EventImportCompleted, stored[0].EventType)
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(1)
	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("test.event", EntityMovie, int64(i))}))
	}
	assert.Len(t, ch, 1)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe("test.event", 10)
	bus.Unsubscribe(ch)

	require.NoError(t, bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("test.event", EntityMovie, 1)}))
	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestBus_CloseClosesSubscribers(t *testing.T) {
	bus := NewBus(nil, nil)
	a := bus.Subscribe("test.event", 1)
	b := bus.SubscribeAll(1)
	require.NoError(t, bus.Close())

	_, ok := <-a
	assert.False(t, ok)
	_, ok = <-b
	assert.False(t, ok)

	require.NoError(t, bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("test.event", EntityMovie, 1)}))
	_, ok = <-bus.SubscribeAll(1)
	assert.False(t, ok, "subscribing to a closed bus yields a closed channel")
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("test.concurrent", EntityMovie, int64(n))})
		}(i)
	}
	wg.Wait()

	assert.Len(t, ch, 10)
}

func TestBus_PublishDuringUnsubscribeAndClose(t *testing.T) {
	bus := NewBus(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = bus.Publish(context.Background(), &testEvent{BaseEvent: NewBaseEvent("test.race", EntityMovie, int64(n))})
			}
		}(i)
	}
	for i := 0; i < 50; i++ {
		bus.Unsubscribe(bus.Subscribe("test.race", 1))
		bus.Unsubscribe(bus.SubscribeAll(1))
	}
	require.NoError(t, bus.Close())
	wg.Wait()
}
