// Package broadcast implements the change-notification fan-out bus.
//
// Mutating operations publish typed events after their store transaction commits;
// the Broadcaster fans each event out to every live Subscription through a bounded
// per-subscriber queue with a drop-oldest overflow policy. Publishing never blocks
// and a slow subscriber only ever loses its own history. Heartbeat ticks are
// generated per subscription and bypass the lossy event queue entirely.
package broadcast
