// Package realtime fans transient events out to currently-connected
// subscribers. Delivery is best-effort: events published to an empty
// channel are dropped, and nothing is replayed on reconnect. Subscribers
// that need history re-derive it from the stores.
package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/arifdev/recipely/backend/internal/metrics"
	"github.com/arifdev/recipely/backend/internal/models"
)

// subscriptionBuffer bounds how far a subscriber may fall behind before
// the broker disconnects it instead of stalling publishers.
const subscriptionBuffer = 64

// subscriptionIDCounter hands out unique IDs so the same subscriber key
// can be attached from several devices at once.
var subscriptionIDCounter atomic.Uint64

// Subscription is one attached consumer on a channel key. Events arrive
// on Events() in publication order until Unsubscribe (or eviction)
// closes the channel.
type Subscription struct {
	id     uint64
	key    string
	events chan models.FanoutEvent
}

// Events returns the subscription's delivery channel. The channel is
// closed when the subscription is detached.
func (s *Subscription) Events() <-chan models.FanoutEvent {
	return s.events
}

// Key returns the channel key the subscription is attached to
func (s *Subscription) Key() string {
	return s.key
}

// Broker is the live-connection registry, keyed by user ID. It has its
// own lock, independent of the store locks, so publishing never waits on
// a store mutation and vice versa.
type Broker struct {
	mu        sync.Mutex
	channels  map[string]map[uint64]*Subscription
	collector *metrics.Collector
}

// NewBroker creates a new Broker
func NewBroker(collector *metrics.Collector) *Broker {
	return &Broker{
		channels:  make(map[string]map[uint64]*Subscription),
		collector: collector,
	}
}

// Subscribe attaches a new subscription to key. Multiple concurrent
// subscriptions on the same key all receive every event.
func (b *Broker) Subscribe(key string) *Subscription {
	sub := &Subscription{
		id:     subscriptionIDCounter.Add(1),
		key:    key,
		events: make(chan models.FanoutEvent, subscriptionBuffer),
	}

	b.mu.Lock()
	subs, ok := b.channels[key]
	if !ok {
		subs = make(map[uint64]*Subscription)
		b.channels[key] = subs
	}
	subs[sub.id] = sub
	b.mu.Unlock()

	b.collector.SubscriberAttached()
	log.Debug().Str("channel", key).Msg("realtime subscriber attached")
	return sub
}

// Publish delivers event to every subscription currently attached to
// key. The send is non-blocking: a subscriber whose buffer is full is
// evicted rather than allowed to stall the publisher. Events published
// by the same caller arrive at each subscriber in publication order.
// Returns the number of subscriptions the event was delivered to.
func (b *Broker) Publish(key string, event models.FanoutEvent) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.channels[key]
	if len(subs) == 0 {
		b.collector.RecordFanoutDropped()
		return 0
	}

	delivered := 0
	for id, sub := range subs {
		select {
		case sub.events <- event:
			delivered++
		default:
			// Buffer full: this subscriber is too slow, cut it loose.
			delete(subs, id)
			close(sub.events)
			b.collector.RecordSlowDisconnect()
			b.collector.SubscriberDetached()
			log.Warn().Str("channel", key).Msg("evicted slow realtime subscriber")
		}
	}
	if len(subs) == 0 {
		delete(b.channels, key)
	}
	return delivered
}

// Unsubscribe detaches sub and closes its event channel. It is
// idempotent: detaching an already-detached subscription is a no-op.
func (b *Broker) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.channels[sub.key]
	if !ok {
		return
	}
	if _, attached := subs[sub.id]; !attached {
		return
	}

	delete(subs, sub.id)
	close(sub.events)
	if len(subs) == 0 {
		delete(b.channels, sub.key)
	}
	b.collector.SubscriberDetached()
	log.Debug().Str("channel", sub.key).Msg("realtime subscriber detached")
}

// SubscriberCount returns the number of subscriptions attached to key
func (b *Broker) SubscriberCount(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.channels[key])
}

// Close detaches every subscription. Used during shutdown so connected
// clients observe a closed channel instead of a hung read.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, subs := range b.channels {
		for id, sub := range subs {
			delete(subs, id)
			close(sub.events)
			b.collector.SubscriberDetached()
		}
		delete(b.channels, key)
	}
	log.Info().Msg("realtime broker closed")
}
