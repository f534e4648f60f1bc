package domain

import (
	"context"
	"time"
)

type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Hostname  string    `json:"hostname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountUpdate carries a partial account update. Nil fields are left unchanged.
type AccountUpdate struct {
	Name     *string
	Hostname *string
}

func (u AccountUpdate) Empty() bool {
	return u.Name == nil && u.Hostname == nil
}

type AccountRepository interface {
	List(ctx context.Context) ([]Account, error)
	GetByID(ctx context.Context, accountID int64) (*Account, error)
	Create(ctx context.Context, name, hostname string) (*Account, error)
	Update(ctx context.Context, accountID int64, update AccountUpdate) (*Account, error)
	// Delete removes the account and, through the store's cascade, all of its
	// batches and bets.
	Delete(ctx context.Context, accountID int64) error
}
