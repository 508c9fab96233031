package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/eventbus"
)

func recv(t *testing.T, ch <-chan entity.Event) entity.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for event")
	}
	return entity.Event{}
}

func TestBus_BroadcastReachesAllSubscribers(t *testing.T) {
	bus := eventbus.New(context.Background(), 8)
	a, cancelA := bus.Subscribe("ext-a")
	defer cancelA()
	b, cancelB := bus.Subscribe("ext-b")
	defer cancelB()

	bus.Emit(entity.EventWindowFocusChanged, 3, entity.TabIDNone, entity.WindowID(3))

	for _, sub := range []*eventbus.Subscription{a, b} {
		ev := recv(t, sub.C)
		assert.Equal(t, entity.EventWindowFocusChanged, ev.Name)
		assert.Equal(t, []any{entity.WindowID(3)}, ev.Args)
		assert.Equal(t, uint64(1), ev.Seq)
	}
}

func TestBus_PreservesOrderPerSubscriber(t *testing.T) {
	bus := eventbus.New(context.Background(), 16)
	sub, cancel := bus.Subscribe("ext")
	defer cancel()

	names := []entity.EventName{
		entity.EventWindowCreated,
		entity.EventWindowUpdated,
		entity.EventWindowFocusChanged,
		entity.EventWindowRemoved,
	}
	for _, n := range names {
		bus.Emit(n, 1, entity.TabIDNone)
	}
	for i, n := range names {
		ev := recv(t, sub.C)
		assert.Equal(t, n, ev.Name)
		assert.Equal(t, uint64(i+1), ev.Seq)
	}
}

func TestBus_FullSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := eventbus.New(context.Background(), 1)
	_, cancelSlow := bus.Subscribe("slow")
	defer cancelSlow()
	fast, cancelFast := bus.Subscribe("fast")
	defer cancelFast()

	done := make(chan struct{})
	go func() {
		bus.Emit(entity.EventWindowCreated, 1, entity.TabIDNone)
		recv(t, fast.C)
		bus.Emit(entity.EventWindowRemoved, 1, entity.TabIDNone)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("broadcast blocked on a full subscriber")
	}
	ev := recv(t, fast.C)
	assert.Equal(t, entity.EventWindowRemoved, ev.Name)
}

func TestBus_UnsubscribeClosesChannelAndRunsHooks(t *testing.T) {
	bus := eventbus.New(context.Background(), 4)
	var added, removed []string
	bus.OnSubscribe(func(s *eventbus.Subscription) { added = append(added, s.ExtensionID) })
	bus.OnUnsubscribe(func(s *eventbus.Subscription) { removed = append(removed, s.ExtensionID) })

	sub, cancel := bus.Subscribe("ext")
	assert.Equal(t, 1, bus.Len())
	cancel()
	cancel()

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.Equal(t, 0, bus.Len())
	assert.Equal(t, []string{"ext"}, added)
	assert.Equal(t, []string{"ext"}, removed)

	bus.Emit(entity.EventWindowCreated, 1, entity.TabIDNone)
}
