package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("invalid input")

	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Nil(t, err.Cause)
	assert.NotNil(t, err.Context)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "invalid input")
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("account not found")

	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
	assert.Contains(t, err.Error(), "not_found")
}

func TestConflictError(t *testing.T) {
	err := ConflictError("batch already completed")

	assert.Equal(t, TypeConflict, err.Type)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())
	assert.Contains(t, err.Error(), "conflict")
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("database connection failed")
	err := InternalError("failed to save account", cause)

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "failed to save account")
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestInternalErrorWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)

	assert.Nil(t, err.Cause)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := InternalError("wrapper", cause)

	assert.ErrorIs(t, err, cause)
}

func TestWithField(t *testing.T) {
	err := NotFoundError("bet not found").
		WithField("batch_id", int64(3)).
		WithField("bet_id", int64(9))

	assert.Equal(t, int64(3), err.Context["batch_id"])
	assert.Equal(t, int64(9), err.Context["bet_id"])
}

func TestToResponse(t *testing.T) {
	err := ValidationError("duplicate bet id in batch").WithField("bet_id", int64(1))

	resp := err.ToResponse()
	assert.Equal(t, "duplicate bet id in batch", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, int64(1), resp.Context["bet_id"])
}

func TestAsStructuredError_PassThrough(t *testing.T) {
	original := ConflictError("batch already completed")

	structured := AsStructuredError(original)
	require.NotNil(t, structured)
	assert.Same(t, original, structured)
}

func TestAsStructuredError_Wrapped(t *testing.T) {
	original := NotFoundError("account not found")
	wrapped := fmt.Errorf("handling request: %w", original)

	structured := AsStructuredError(wrapped)
	require.NotNil(t, structured)
	assert.Same(t, original, structured)
}

func TestAsStructuredError_Unknown(t *testing.T) {
	structured := AsStructuredError(errors.New("boom"))
	require.NotNil(t, structured)
	assert.Equal(t, TypeInternal, structured.Type)
}

func TestAsStructuredError_Nil(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))
}
