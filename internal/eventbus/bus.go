// Package eventbus fans normalized lifecycle events out to extension contexts.
package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/logging"
)

// DefaultDepth is the per-subscription buffer size.
const DefaultDepth = 256

// Subscription is one (bus, extension context) pair.
type Subscription struct {
	ID          uint64
	ExtensionID string
	C           <-chan entity.Event

	ch      chan entity.Event
	dropped uint64
}

// Bus delivers every broadcast to all current subscribers.
// Delivery is fire-and-forget: a full subscriber buffer drops the event for
// that subscriber only.
type Bus struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	seq    uint64
	depth  int
	now    func() time.Time
	log    zerolog.Logger

	onSubscribe   []func(*Subscription)
	onUnsubscribe []func(*Subscription)
}

// New constructs a Bus with the given per-subscriber depth.
func New(ctx context.Context, depth int) *Bus {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Bus{
		subs:  make(map[uint64]*Subscription),
		depth: depth,
		now:   time.Now,
		log:   *logging.FromContext(logging.WithComponent(ctx, "eventbus")),
	}
}

// OnSubscribe registers a membership hook called after a subscription is added.
func (b *Bus) OnSubscribe(fn func(*Subscription)) {
	b.mu.Lock()
	b.onSubscribe = append(b.onSubscribe, fn)
	b.mu.Unlock()
}

// OnUnsubscribe registers a membership hook called after a subscription is removed.
func (b *Bus) OnUnsubscribe(fn func(*Subscription)) {
	b.mu.Lock()
	b.onUnsubscribe = append(b.onUnsubscribe, fn)
	b.mu.Unlock()
}

// Subscribe registers an extension context and returns its subscription
// and a cancel func that removes it and closes the channel.
func (b *Bus) Subscribe(extensionID string) (*Subscription, func()) {
	ch := make(chan entity.Event, b.depth)

	b.mu.Lock()
	b.nextID++
	sub := &Subscription{ID: b.nextID, ExtensionID: extensionID, C: ch, ch: ch}
	b.subs[sub.ID] = sub
	count := len(b.subs)
	hooks := append([]func(*Subscription){}, b.onSubscribe...)
	b.mu.Unlock()

	b.log.Debug().Uint64("sub", sub.ID).Str("extension_id", extensionID).Int("subs", count).Msg("subscribed")
	for _, fn := range hooks {
		fn(sub)
	}

	var once sync.Once
	return sub, func() {
		once.Do(func() { b.unsubscribe(sub) })
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	if _, ok := b.subs[sub.ID]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.subs, sub.ID)
	close(sub.ch)
	hooks := append([]func(*Subscription){}, b.onUnsubscribe...)
	b.mu.Unlock()

	b.log.Debug().Uint64("sub", sub.ID).Str("extension_id", sub.ExtensionID).Msg("unsubscribed")
	for _, fn := range hooks {
		fn(sub)
	}
}

// Broadcast assigns the next sequence number and delivers the event.
// The lock is held across fan-out so every subscriber sees the same order.
func (b *Bus) Broadcast(ev entity.Event) entity.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	ev.Seq = b.seq
	if ev.Timestamp.IsZero() {
		ev.Timestamp = b.now()
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			sub.dropped++
			b.log.Warn().
				Uint64("sub", sub.ID).
				Str("extension_id", sub.ExtensionID).
				Str("event", string(ev.Name)).
				Uint64("dropped", sub.dropped).
				Msg("subscriber buffer full, event dropped")
		}
	}
	return ev
}

// Emit is a shorthand for Broadcast with positional listener arguments.
func (b *Bus) Emit(name entity.EventName, windowID entity.WindowID, tabID entity.TabID, args ...any) entity.Event {
	if args == nil {
		args = []any{}
	}
	return b.Broadcast(entity.Event{Name: name, WindowID: windowID, TabID: tabID, Args: args})
}

// Len returns the number of current subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close removes every subscriber.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()
	for _, s := range subs {
		b.unsubscribe(s)
	}
}
