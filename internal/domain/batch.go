package domain

import (
	"context"
	"encoding/json"
	"time"
)

type BetStatus string

const (
	BetStatusPending    BetStatus = "pending"
	BetStatusPlaced     BetStatus = "placed"
	BetStatusSuccessful BetStatus = "successful"
	BetStatusFailed     BetStatus = "failed"
	BetStatusVoid       BetStatus = "void"
)

// Valid reports whether s is one of the recognized settlement statuses.
func (s BetStatus) Valid() bool {
	switch s {
	case BetStatusPending, BetStatusPlaced, BetStatusSuccessful, BetStatusFailed, BetStatusVoid:
		return true
	}
	return false
}

type Batch struct {
	ID        int64           `json:"id"`
	Completed bool            `json:"completed"`
	Meta      json.RawMessage `json:"meta"`
	AccountID int64           `json:"account_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Bet struct {
	PID       int64     `json:"pid"`
	ID        int64     `json:"id"`
	Selection string    `json:"selection"`
	Stake     float64   `json:"stake"`
	Cost      float64   `json:"cost"`
	Status    BetStatus `json:"status"`
	BatchID   int64     `json:"batch_id"`
}

// BatchWithBets is a batch together with every bet it owns, as materialized
// by a single store read or returned from the transaction that created it.
type BatchWithBets struct {
	Batch
	Bets []Bet `json:"bets"`
}

// NewBet is the client-supplied shape of a bet inside a batch upload.
// The ID is assigned by the client and unique within the batch.
type NewBet struct {
	ID        int64   `json:"id"`
	Selection string  `json:"selection"`
	Stake     float64 `json:"stake"`
	Cost      float64 `json:"cost"`
}

type BatchRepository interface {
	// CreateWithBets inserts the batch and all of its bets in one transaction
	// and returns the committed state, bets included.
	CreateWithBets(ctx context.Context, accountID int64, meta json.RawMessage, bets []NewBet) (*BatchWithBets, error)
	ListByAccount(ctx context.Context, accountID int64) ([]BatchWithBets, error)
	GetByID(ctx context.Context, accountID, batchID int64) (*BatchWithBets, error)
	// ReplaceBets swaps the batch's bets for the given set (and optionally its
	// meta) in one transaction, returning the committed state.
	ReplaceBets(ctx context.Context, accountID, batchID int64, meta json.RawMessage, bets []NewBet) (*BatchWithBets, error)
	// Complete marks the batch as submitted. Completing twice is a conflict.
	Complete(ctx context.Context, accountID, batchID int64) (*Batch, error)
	// UpdateBetStatus changes one bet's settlement status, addressed by the
	// client-assigned bet ID within the batch.
	UpdateBetStatus(ctx context.Context, accountID, batchID, betID int64, status BetStatus) (*Bet, error)
}
