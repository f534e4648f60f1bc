package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"github.com/nimeshpahadi/betstream/internal/broadcast"
	"github.com/nimeshpahadi/betstream/internal/domain"
	"github.com/nimeshpahadi/betstream/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	listAccountsFn    func(ctx context.Context) ([]domain.Account, error)
	getAccountFn      func(ctx context.Context, accountID int64) (*domain.Account, error)
	createAccountFn   func(ctx context.Context, name, hostname string) (*domain.Account, error)
	updateAccountFn   func(ctx context.Context, accountID int64, update domain.AccountUpdate) (*domain.Account, error)
	deleteAccountFn   func(ctx context.Context, accountID int64) error
	createBatchFn     func(ctx context.Context, accountID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error)
	listBatchesFn     func(ctx context.Context, accountID int64) ([]domain.BatchWithBets, error)
	getBatchFn        func(ctx context.Context, accountID, batchID int64) (*domain.BatchWithBets, error)
	updateBatchFn     func(ctx context.Context, accountID, batchID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error)
	completeBatchFn   func(ctx context.Context, accountID, batchID int64) (*domain.Batch, error)
	updateBetStatusFn func(ctx context.Context, accountID, batchID, betID int64, status domain.BetStatus) (*domain.Bet, error)
}

func (m *mockAppService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, accountID)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *mockAppService) CreateAccount(ctx context.Context, name, hostname string) (*domain.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, name, hostname)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) UpdateAccount(ctx context.Context, accountID int64, update domain.AccountUpdate) (*domain.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(ctx, accountID, update)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *mockAppService) DeleteAccount(ctx context.Context, accountID int64) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(ctx, accountID)
	}
	return domain.ErrAccountNotFound
}

func (m *mockAppService) CreateBatch(ctx context.Context, accountID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error) {
	if m.createBatchFn != nil {
		return m.createBatchFn(ctx, accountID, meta, bets)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ListBatches(ctx context.Context, accountID int64) ([]domain.BatchWithBets, error) {
	if m.listBatchesFn != nil {
		return m.listBatchesFn(ctx, accountID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) GetBatch(ctx context.Context, accountID, batchID int64) (*domain.BatchWithBets, error) {
	if m.getBatchFn != nil {
		return m.getBatchFn(ctx, accountID, batchID)
	}
	return nil, domain.ErrBatchNotFound
}

func (m *mockAppService) UpdateBatch(ctx context.Context, accountID, batchID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error) {
	if m.updateBatchFn != nil {
		return m.updateBatchFn(ctx, accountID, batchID, meta, bets)
	}
	return nil, domain.ErrBatchNotFound
}

func (m *mockAppService) CompleteBatch(ctx context.Context, accountID, batchID int64) (*domain.Batch, error) {
	if m.completeBatchFn != nil {
		return m.completeBatchFn(ctx, accountID, batchID)
	}
	return nil, domain.ErrBatchNotFound
}

func (m *mockAppService) UpdateBetStatus(ctx context.Context, accountID, batchID, betID int64, status domain.BetStatus) (*domain.Bet, error) {
	if m.updateBetStatusFn != nil {
		return m.updateBetStatusFn(ctx, accountID, batchID, betID, status)
	}
	return nil, domain.ErrBetNotFound
}

// --- Test helpers ---

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withBroadcaster(b *broadcast.Broadcaster) func(*Server) {
	return func(s *Server) {
		s.broadcaster = b
	}
}

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	broadcaster := broadcast.NewBroadcaster(clockwork.NewFakeClock(), 100, time.Minute)
	t.Cleanup(broadcaster.Close)

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			Port:                 "3001",
			CORSAllowOrigins:     "*",
			RateLimitPerSecond:   1000,
			RateLimitBurst:       1000,
			MaxStreamConnections: 100,
		},
		app:           app,
		broadcaster:   broadcaster,
		streamLimiter: NewConnectionLimiter(100),
		startTime:     time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()
	return srv
}
