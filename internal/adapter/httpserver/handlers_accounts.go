package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nimeshpahadi/betstream/internal/domain"
	apperrors "github.com/nimeshpahadi/betstream/internal/platform/errors"
)

type createAccountRequest struct {
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
}

type updateAccountRequest struct {
	Name     *string `json:"name"`
	Hostname *string `json:"hostname"`
}

func pathID(c echo.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationError("invalid " + name).WithField(name, raw)
	}
	return id, nil
}

func (s *Server) handleListAccounts(c echo.Context) error {
	accounts, err := s.app.ListAccounts(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list accounts", err)
	}

	if err := c.JSON(http.StatusOK, accounts); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetAccount(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	account, err := s.app.GetAccount(c.Request().Context(), accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.NotFoundError("account not found").WithField("account_id", accountID)
	}
	if err != nil {
		return apperrors.InternalError("failed to load account", err).WithField("account_id", accountID)
	}

	if err := c.JSON(http.StatusOK, account); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateAccount(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Hostname = strings.TrimSpace(req.Hostname)
	if req.Name == "" {
		return apperrors.ValidationError("name is required")
	}
	if req.Hostname == "" {
		return apperrors.ValidationError("hostname is required")
	}

	account, err := s.app.CreateAccount(c.Request().Context(), req.Name, req.Hostname)
	if err != nil {
		return apperrors.InternalError("failed to create account", err)
	}

	if err := c.JSON(http.StatusCreated, account); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateAccount(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	update := domain.AccountUpdate{Name: req.Name, Hostname: req.Hostname}
	if update.Empty() {
		return apperrors.ValidationError("no fields to update")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return apperrors.ValidationError("name must not be empty")
	}
	if req.Hostname != nil && strings.TrimSpace(*req.Hostname) == "" {
		return apperrors.ValidationError("hostname must not be empty")
	}

	account, err := s.app.UpdateAccount(c.Request().Context(), accountID, update)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.NotFoundError("account not found").WithField("account_id", accountID)
	}
	if err != nil {
		return apperrors.InternalError("failed to update account", err).WithField("account_id", accountID)
	}

	if err := c.JSON(http.StatusOK, account); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteAccount(c echo.Context) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	err = s.app.DeleteAccount(c.Request().Context(), accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.NotFoundError("account not found").WithField("account_id", accountID)
	}
	if err != nil {
		return apperrors.InternalError("failed to delete account", err).WithField("account_id", accountID)
	}

	return c.NoContent(http.StatusNoContent)
}
