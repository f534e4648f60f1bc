package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/nimeshpahadi/betstream/internal/domain"
	"github.com/nimeshpahadi/betstream/internal/metrics"
)

// Envelope is one published event as queued for a subscriber: the wire type
// name, the payload serialized once at publish time, and a strictly increasing
// sequence number assigned by the Broadcaster. The sequence number exists for
// ordering diagnostics only; there is no replay.
type Envelope struct {
	Seq  uint64
	Type string
	Data json.RawMessage
}

// Broadcaster fans published events out to every live Subscription.
// Subscribe, Unsubscribe and Publish are mutually atomic: readers of the
// registry never observe a half-added or half-removed subscription.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*Subscription
	seq    uint64
	closed bool

	clock             clockwork.Clock
	queueCapacity     int
	heartbeatInterval time.Duration
}

// NewBroadcaster creates a broadcaster whose subscriptions hold at most
// queueCapacity undelivered events and emit a heartbeat every
// heartbeatInterval, independent of event traffic.
func NewBroadcaster(clock clockwork.Clock, queueCapacity int, heartbeatInterval time.Duration) *Broadcaster {
	return &Broadcaster{
		subs:              make(map[uuid.UUID]*Subscription),
		clock:             clock,
		queueCapacity:     queueCapacity,
		heartbeatInterval: heartbeatInterval,
	}
}

// Subscribe registers a new subscription and returns its handle. The caller
// owns the handle and must release it with Unsubscribe when the consumer
// disconnects. A subscriber only sees events published after this call.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := newSubscription(b.queueCapacity, b.clock.NewTicker(b.heartbeatInterval))

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.close()
		return sub
	}

	b.subs[sub.id] = sub
	metrics.BroadcastSubscribers.Set(float64(len(b.subs)))

	slog.Debug("Subscriber registered", "subscription_id", sub.id.String(), "total", len(b.subs))
	return sub
}

// Unsubscribe removes the subscription from the registry and terminates its
// stream. Idempotent.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	_, registered := b.subs[sub.id]
	delete(b.subs, sub.id)
	metrics.BroadcastSubscribers.Set(float64(len(b.subs)))
	b.mu.Unlock()

	sub.close()

	if registered {
		slog.Debug("Subscriber unregistered", "subscription_id", sub.id.String())
	}
}

// Publish serializes the event once and enqueues it into every live
// subscription. Fire-and-forget: a serialization failure drops this single
// event, a full subscriber queue drops that subscriber's oldest event, and
// neither surfaces to the caller.
func (b *Broadcaster) Publish(event domain.Event) {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		slog.Error("Failed to marshal event payload", "event_type", event.EventType(), "error", err)
		metrics.EventsDroppedTotal.WithLabelValues("marshal").Inc()
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.seq++
	env := Envelope{Seq: b.seq, Type: event.EventType(), Data: data}

	for _, sub := range b.subs {
		if sub.enqueue(env) {
			slog.Warn("Subscriber queue full, dropped oldest event",
				"subscription_id", sub.id.String(),
				"event_type", env.Type,
				"seq", env.Seq,
			)
			metrics.EventsDroppedTotal.WithLabelValues("queue_full").Inc()
		}
	}

	metrics.EventsPublishedTotal.WithLabelValues(env.Type).Inc()
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close terminates every subscription and rejects future ones. Used at
// shutdown.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	clear(b.subs)
	b.closed = true
	metrics.BroadcastSubscribers.Set(0)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}

	slog.Info("Broadcaster closed", "terminated_subscriptions", len(subs))
}
