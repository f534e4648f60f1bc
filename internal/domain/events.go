package domain

// Event type names as they appear on the wire (SSE event field / WebSocket
// "type" field).
const (
	EventTypeAccountCreated   = "account_created"
	EventTypeAccountUpdated   = "account_updated"
	EventTypeAccountDeleted   = "account_deleted"
	EventTypeBatchCreated     = "batch_created"
	EventTypeBatchCompleted   = "batch_completed"
	EventTypeBatchBetsUpdated = "batch_bets_updated"
	EventTypeBetStatusChanged = "bet_status_changed"
)

// Event is one state transition, carrying the fully hydrated entity snapshot
// captured at commit time. Deletion variants carry identifiers only, since
// there is no live state left to hydrate. The set of variants is closed.
type Event interface {
	EventType() string
	// Payload returns the value serialized as the event's wire data.
	Payload() any

	isEvent()
}

type AccountCreated struct {
	Account Account
}

type AccountUpdated struct {
	Account Account
}

type AccountDeleted struct {
	AccountID int64
}

type BatchCreated struct {
	Batch BatchWithBets
}

type BatchCompleted struct {
	BatchID   int64
	AccountID int64
}

type BatchBetsUpdated struct {
	BatchID   int64
	AccountID int64
	Bets      []Bet
}

type BetStatusChanged struct {
	Bet Bet
}

func (AccountCreated) EventType() string   { return EventTypeAccountCreated }
func (AccountUpdated) EventType() string   { return EventTypeAccountUpdated }
func (AccountDeleted) EventType() string   { return EventTypeAccountDeleted }
func (BatchCreated) EventType() string     { return EventTypeBatchCreated }
func (BatchCompleted) EventType() string   { return EventTypeBatchCompleted }
func (BatchBetsUpdated) EventType() string { return EventTypeBatchBetsUpdated }
func (BetStatusChanged) EventType() string { return EventTypeBetStatusChanged }

func (e AccountCreated) Payload() any { return e.Account }
func (e AccountUpdated) Payload() any { return e.Account }

func (e AccountDeleted) Payload() any {
	return map[string]int64{"id": e.AccountID}
}

func (e BatchCreated) Payload() any { return e.Batch }

func (e BatchCompleted) Payload() any {
	return map[string]int64{"batch_id": e.BatchID, "account_id": e.AccountID}
}

func (e BatchBetsUpdated) Payload() any {
	return struct {
		BatchID   int64 `json:"batch_id"`
		AccountID int64 `json:"account_id"`
		Bets      []Bet `json:"bets"`
	}{e.BatchID, e.AccountID, e.Bets}
}

func (e BetStatusChanged) Payload() any { return e.Bet }

func (AccountCreated) isEvent()   {}
func (AccountUpdated) isEvent()   {}
func (AccountDeleted) isEvent()   {}
func (BatchCreated) isEvent()     {}
func (BatchCompleted) isEvent()   {}
func (BatchBetsUpdated) isEvent() {}
func (BetStatusChanged) isEvent() {}

// EventPublisher is the boundary the application layer publishes through.
// Publish is fire-and-forget: it never fails the calling mutation, never
// blocks on subscriber delivery, and is a no-op with zero subscribers.
type EventPublisher interface {
	Publish(event Event)
}
