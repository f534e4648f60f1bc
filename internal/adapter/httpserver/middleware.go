package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/nimeshpahadi/betstream/internal/metrics"
	"github.com/nimeshpahadi/betstream/internal/platform/correlation"
	apperrors "github.com/nimeshpahadi/betstream/internal/platform/errors"
)

// correlationMiddleware attaches a correlation ID to every request context
// so log lines for a request can be tied together.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// ErrorHandlingMiddleware converts structured errors into JSON responses
// with the appropriate HTTP status code. Errors without a structured type
// become opaque 500s.
func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			if he, ok := err.(*echo.HTTPError); ok {
				return he
			}

			structured := apperrors.AsStructuredError(err)
			logError(c, structured)
			metrics.HTTPErrorsTotal.WithLabelValues(string(structured.Type)).Inc()
			return c.JSON(structured.HTTPStatus(), structured.ToResponse())
		}
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	ctx := c.Request().Context()
	attrs := []any{"error", err.Error(), "type", err.Type}
	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	if err.Type == apperrors.TypeInternal {
		slog.ErrorContext(ctx, "Request failed", attrs...)
		return
	}
	slog.WarnContext(ctx, "Request rejected", attrs...)
}
