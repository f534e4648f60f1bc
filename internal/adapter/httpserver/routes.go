package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(correlationMiddleware)
	s.echo.Use(ErrorHandlingMiddleware())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.CORSAllowOrigins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))

	s.echo.GET("/", s.handleLanding)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.registerHealthRoutes()

	limiter := newRateLimiter(s.config.RateLimitPerSecond, s.config.RateLimitBurst)

	api := s.echo.Group("/api/v1")
	api.GET("/accounts", s.handleListAccounts)
	api.POST("/accounts", s.handleCreateAccount, limiter)
	api.GET("/accounts/:id", s.handleGetAccount)
	api.PUT("/accounts/:id", s.handleUpdateAccount, limiter)
	api.DELETE("/accounts/:id", s.handleDeleteAccount, limiter)

	api.GET("/accounts/:id/batches", s.handleListBatches)
	api.POST("/accounts/:id/batches", s.handleCreateBatch, limiter)
	api.GET("/accounts/:id/batches/:batch_id", s.handleGetBatch)
	api.PUT("/accounts/:id/batches/:batch_id", s.handleUpdateBatch, limiter)
	api.DELETE("/accounts/:id/batches/:batch_id", s.handleCompleteBatch, limiter)
	api.PATCH("/accounts/:id/batches/:batch_id/bets/:bet_id", s.handleUpdateBetStatus, limiter)

	s.echo.GET("/sse", s.handleSSE)
	s.echo.GET("/ws", s.handleWebSocket)
}

func (s *Server) handleLanding(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"service": "betstream"})
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
