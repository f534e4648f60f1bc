package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nimeshpahadi/betstream/internal/domain"
)

// Service is the application layer. It orchestrates all use cases and is the
// only component that publishes events: each mutating method calls the
// repository, and only once the repository's transaction has committed hands
// the returned snapshot to the publisher. Publishing is fire-and-forget, so a
// slow or absent subscriber can never fail or stall a mutation.
type Service struct {
	accounts domain.AccountRepository
	batches  domain.BatchRepository
	events   domain.EventPublisher
}

// NewService creates the application layer service.
func NewService(accounts domain.AccountRepository, batches domain.BatchRepository, events domain.EventPublisher) *Service {
	return &Service{
		accounts: accounts,
		batches:  batches,
		events:   events,
	}
}

// ListAccounts returns all accounts, newest first.
func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

// GetAccount retrieves an account by ID.
func (s *Service) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

// CreateAccount creates an account and announces it.
func (s *Service) CreateAccount(ctx context.Context, name, hostname string) (*domain.Account, error) {
	account, err := s.accounts.Create(ctx, name, hostname)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.events.Publish(domain.AccountCreated{Account: *account})
	return account, nil
}

// UpdateAccount applies a partial update and announces the new state.
func (s *Service) UpdateAccount(ctx context.Context, accountID int64, update domain.AccountUpdate) (*domain.Account, error) {
	account, err := s.accounts.Update(ctx, accountID, update)
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.AccountUpdated{Account: *account})
	return account, nil
}

// DeleteAccount removes the account and everything it owns. Subscribers only
// receive the account deletion; the store's cascade removes the batches and
// bets, so there is no remaining state to hydrate events for.
func (s *Service) DeleteAccount(ctx context.Context, accountID int64) error {
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return err
	}

	s.events.Publish(domain.AccountDeleted{AccountID: accountID})
	return nil
}

// CreateBatch stores a batch and its bets atomically and announces the
// committed state, bets included.
func (s *Service) CreateBatch(ctx context.Context, accountID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error) {
	batch, err := s.batches.CreateWithBets(ctx, accountID, meta, bets)
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.BatchCreated{Batch: *batch})
	return batch, nil
}

// ListBatches returns the account's batches with their bets, newest first.
func (s *Service) ListBatches(ctx context.Context, accountID int64) ([]domain.BatchWithBets, error) {
	return s.batches.ListByAccount(ctx, accountID)
}

// GetBatch retrieves one batch with its bets.
func (s *Service) GetBatch(ctx context.Context, accountID, batchID int64) (*domain.BatchWithBets, error) {
	return s.batches.GetByID(ctx, accountID, batchID)
}

// UpdateBatch replaces the batch's bets (and optionally its meta) and
// announces the committed bet set.
func (s *Service) UpdateBatch(ctx context.Context, accountID, batchID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error) {
	batch, err := s.batches.ReplaceBets(ctx, accountID, batchID, meta, bets)
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.BatchBetsUpdated{
		BatchID:   batch.ID,
		AccountID: batch.AccountID,
		Bets:      batch.Bets,
	})
	return batch, nil
}

// CompleteBatch submits the batch. Completing an already completed batch is a
// conflict.
func (s *Service) CompleteBatch(ctx context.Context, accountID, batchID int64) (*domain.Batch, error) {
	batch, err := s.batches.Complete(ctx, accountID, batchID)
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.BatchCompleted{BatchID: batch.ID, AccountID: batch.AccountID})
	return batch, nil
}

// UpdateBetStatus changes one bet's settlement status and announces the bet's
// new state.
func (s *Service) UpdateBetStatus(ctx context.Context, accountID, batchID, betID int64, status domain.BetStatus) (*domain.Bet, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	bet, err := s.batches.UpdateBetStatus(ctx, accountID, batchID, betID, status)
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.BetStatusChanged{Bet: *bet})
	return bet, nil
}
