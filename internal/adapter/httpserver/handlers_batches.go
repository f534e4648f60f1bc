package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nimeshpahadi/betstream/internal/domain"
	apperrors "github.com/nimeshpahadi/betstream/internal/platform/errors"
)

type batchRequest struct {
	Meta json.RawMessage `json:"meta"`
	Bets []domain.NewBet `json:"bets"`
}

type updateBetStatusRequest struct {
	Status string `json:"status"`
}

func validateBets(bets []domain.NewBet) error {
	if len(bets) == 0 {
		return apperrors.ValidationError("batch must contain at least one bet")
	}

	seen := make(map[int64]struct{}, len(bets))
	for _, bet := range bets {
		if bet.ID <= 0 {
			return apperrors.ValidationError("bet id must be positive").WithField("bet_id", bet.ID)
		}
		if _, dup := seen[bet.ID]; dup {
			return apperrors.ValidationError("duplicate bet id in batch").WithField("bet_id", bet.ID)
		}
		seen[bet.ID] = struct{}{}

		if strings.TrimSpace(bet.Selection) == "" {
			return apperrors.ValidationError("bet selection is required").WithField("bet_id", bet.ID)
		}
		if bet.Stake < 0 || bet.Cost < 0 {
			return apperrors.ValidationError("bet stake and cost must not be negative").WithField("bet_id", bet.ID)
		}
	}
	return nil
}

func (s *Server) handleListBatches(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	batches, err := s.app.ListBatches(c.Request().Context(), accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.NotFoundError("account not found").WithField("account_id", accountID)
	}
	if err != nil {
		return apperrors.InternalError("failed to list batches", err).WithField("account_id", accountID)
	}

	if err := c.JSON(http.StatusOK, batches); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetBatch(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	batchID, err := pathID(c, "batch_id")
	if err != nil {
		return err
	}

	batch, err := s.app.GetBatch(c.Request().Context(), accountID, batchID)
	if errors.Is(err, domain.ErrBatchNotFound) {
		return apperrors.NotFoundError("batch not found").WithField("batch_id", batchID)
	}
	if err != nil {
		return apperrors.InternalError("failed to load batch", err).WithField("batch_id", batchID)
	}

	if err := c.JSON(http.StatusOK, batch); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateBatch(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := validateBets(req.Bets); err != nil {
		return err
	}

	batch, err := s.app.CreateBatch(c.Request().Context(), accountID, req.Meta, req.Bets)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.NotFoundError("account not found").WithField("account_id", accountID)
	}
	if err != nil {
		return apperrors.InternalError("failed to create batch", err).WithField("account_id", accountID)
	}

	if err := c.JSON(http.StatusCreated, batch); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateBatch(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	batchID, err := pathID(c, "batch_id")
	if err != nil {
		return err
	}

	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := validateBets(req.Bets); err != nil {
		return err
	}

	batch, err := s.app.UpdateBatch(c.Request().Context(), accountID, batchID, req.Meta, req.Bets)
	if errors.Is(err, domain.ErrBatchNotFound) {
		return apperrors.NotFoundError("batch not found").WithField("batch_id", batchID)
	}
	if errors.Is(err, domain.ErrBatchCompleted) {
		return apperrors.ConflictError("batch already completed").WithField("batch_id", batchID)
	}
	if err != nil {
		return apperrors.InternalError("failed to update batch", err).WithField("batch_id", batchID)
	}

	if err := c.JSON(http.StatusOK, batch); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCompleteBatch(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	batchID, err := pathID(c, "batch_id")
	if err != nil {
		return err
	}

	batch, err := s.app.CompleteBatch(c.Request().Context(), accountID, batchID)
	if errors.Is(err, domain.ErrBatchNotFound) {
		return apperrors.NotFoundError("batch not found").WithField("batch_id", batchID)
	}
	if errors.Is(err, domain.ErrBatchCompleted) {
		return apperrors.ConflictError("batch already completed").WithField("batch_id", batchID)
	}
	if err != nil {
		return apperrors.InternalError("failed to complete batch", err).WithField("batch_id", batchID)
	}

	if err := c.JSON(http.StatusOK, batch); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateBetStatus(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	batchID, err := pathID(c, "batch_id")
	if err != nil {
		return err
	}
	betID, err := pathID(c, "bet_id")
	if err != nil {
		return err
	}

	var req updateBetStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	bet, err := s.app.UpdateBetStatus(c.Request().Context(), accountID, batchID, betID, domain.BetStatus(req.Status))
	if errors.Is(err, domain.ErrInvalidStatus) {
		return apperrors.ValidationError("invalid bet status").WithField("status", req.Status)
	}
	if errors.Is(err, domain.ErrBatchNotFound) {
		return apperrors.NotFoundError("batch not found").WithField("batch_id", batchID)
	}
	if errors.Is(err, domain.ErrBetNotFound) {
		return apperrors.NotFoundError("bet not found").WithField("bet_id", betID)
	}
	if err != nil {
		return apperrors.InternalError("failed to update bet status", err).WithField("bet_id", betID)
	}

	if err := c.JSON(http.StatusOK, bet); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
