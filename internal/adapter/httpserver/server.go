package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nimeshpahadi/betstream/internal/broadcast"
	"github.com/nimeshpahadi/betstream/internal/domain"
	"github.com/nimeshpahadi/betstream/internal/platform/config"
)

type appService interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	CreateAccount(ctx context.Context, name, hostname string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID int64, update domain.AccountUpdate) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID int64) error

	CreateBatch(ctx context.Context, accountID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error)
	ListBatches(ctx context.Context, accountID int64) ([]domain.BatchWithBets, error)
	GetBatch(ctx context.Context, accountID, batchID int64) (*domain.BatchWithBets, error)
	UpdateBatch(ctx context.Context, accountID, batchID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error)
	CompleteBatch(ctx context.Context, accountID, batchID int64) (*domain.Batch, error)
	UpdateBetStatus(ctx context.Context, accountID, batchID, betID int64, status domain.BetStatus) (*domain.Bet, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app         appService
	broadcaster *broadcast.Broadcaster

	streamLimiter *ConnectionLimiter
	healthChecks  []HealthCheck
	startTime     time.Time
}

func NewServer(cfg *config.Config, app appService, broadcaster *broadcast.Broadcaster, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:          e,
		config:        cfg,
		app:           app,
		broadcaster:   broadcaster,
		streamLimiter: NewConnectionLimiter(cfg.MaxStreamConnections),
		healthChecks:  healthChecks,
		startTime:     time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
