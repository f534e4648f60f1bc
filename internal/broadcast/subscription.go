package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/nimeshpahadi/betstream/internal/metrics"
)

// PingType tags heartbeat frames so consumers can tell liveness signals from
// real events.
const PingType = "ping"

// ErrSubscriptionClosed is returned by Next once the subscription has been
// released via Unsubscribe or the broadcaster has shut down.
var ErrSubscriptionClosed = errors.New("broadcast: subscription closed")

// Outbound is one item of a subscriber's merged stream: either a published
// event or a heartbeat frame.
type Outbound struct {
	Type string
	Data json.RawMessage
}

// Subscription is one connected observer's handle on the bus: a bounded event
// queue plus a per-subscription heartbeat ticker. Next merges both into a
// single ordered stream.
type Subscription struct {
	id        uuid.UUID
	events    chan Envelope
	done      chan struct{}
	heartbeat clockwork.Ticker
	cursor    atomic.Uint64
	closeOnce sync.Once
}

func newSubscription(capacity int, heartbeat clockwork.Ticker) *Subscription {
	return &Subscription{
		id:        uuid.New(),
		events:    make(chan Envelope, capacity),
		done:      make(chan struct{}),
		heartbeat: heartbeat,
	}
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() uuid.UUID { return s.id }

// Cursor reports the sequence number of the last event delivered through
// Next. Diagnostics only; it does not enable replay.
func (s *Subscription) Cursor() uint64 { return s.cursor.Load() }

// Next blocks until the next outbound item is available and returns it:
// the next queued event, or a heartbeat frame when the ticker fires first.
// Heartbeats bypass the event queue, so an idle or saturated subscriber still
// receives them. Next returns ctx.Err() when the consumer's context is
// cancelled and ErrSubscriptionClosed once the subscription is released;
// either way the caller must stop consuming and call Unsubscribe.
func (s *Subscription) Next(ctx context.Context) (Outbound, error) {
	select {
	case <-ctx.Done():
		return Outbound{}, ctx.Err()
	case <-s.done:
		return Outbound{}, ErrSubscriptionClosed
	case env := <-s.events:
		s.cursor.Store(env.Seq)
		return Outbound{Type: env.Type, Data: env.Data}, nil
	case t := <-s.heartbeat.Chan():
		data, err := json.Marshal(t.UTC())
		if err != nil {
			// time.Time marshaling cannot fail for valid timestamps
			return Outbound{}, err
		}
		metrics.HeartbeatsTotal.Inc()
		return Outbound{Type: PingType, Data: data}, nil
	}
}

// enqueue attempts a non-blocking enqueue, discarding the oldest queued
// envelope when the queue is full. Reports whether anything was dropped.
// Callers serialize enqueues through the broadcaster's lock, so two
// publishers never race on the drop-then-admit sequence.
func (s *Subscription) enqueue(env Envelope) (dropped bool) {
	select {
	case s.events <- env:
		return false
	default:
	}

	// Full: make room by discarding the oldest, never the newest.
	select {
	case <-s.events:
		dropped = true
	default:
		// Consumer drained concurrently; queue has room again.
	}

	select {
	case s.events <- env:
	default:
		// Only reachable if the consumer raced a refill; with enqueues
		// serialized this does not happen.
	}
	return dropped
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		s.heartbeat.Stop()
		close(s.done)
	})
}
