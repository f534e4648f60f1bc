package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// newRateLimiter builds a per-IP token bucket limiter for mutating routes.
// Reads stay unthrottled so dashboards can poll freely.
func newRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: burst,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return &echo.HTTPError{Code: http.StatusForbidden, Message: "unable to identify client"}
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return &echo.HTTPError{Code: http.StatusTooManyRequests, Message: "rate limit exceeded"}
		},
	})
}
