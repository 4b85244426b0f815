// Package server exposes the generation pipeline over HTTP with lifecycle
// management. Handlers are thin plumbing: bind, validate, delegate, map
// errors.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/smahlberg/postmind/internal/generator"
	"github.com/smahlberg/postmind/internal/memory"
	"github.com/smahlberg/postmind/internal/metrics"
	"github.com/smahlberg/postmind/internal/models"
)

// PostService is the generation surface the HTTP layer needs.
// *generator.Service is the production implementation.
type PostService interface {
	Generate(ctx context.Context, req generator.PostRequest) (*generator.PostResponse, error)
	History(ctx context.Context, userID string, limit int) ([]models.PostSummary, int, error)
	Series(ctx context.Context, userID string) ([]models.SeriesSummary, error)
}

// Server wraps echo with the service and lifecycle management.
type Server struct {
	echo    *echo.Echo
	service PostService
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates the HTTP server and registers all routes. The collector may be
// nil; /api/stats then reports only uptime-less zero values.
func New(service PostService, collector *metrics.Collector, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())

	s := &Server{echo: e, service: service, logger: logger, metrics: collector}
	e.Use(s.requestLogger)

	e.GET("/healthz", s.health)
	api := e.Group("/api")
	api.POST("/generate", s.generate)
	api.GET("/history/:user_id", s.history)
	api.GET("/series/:user_id", s.series)
	api.GET("/stats", s.stats)

	return s
}

// Start listens on addr and blocks until the listener fails or is shut down.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting http server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// errorBody is the uniform JSON error shape.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code"`
}

// mapError translates pipeline failures to HTTP statuses. Client mistakes
// never reach this point; anything here is an upstream or internal fault.
func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, memory.ErrStorageUnavailable):
		return c.JSON(http.StatusServiceUnavailable, errorBody{
			Error: "memory store unavailable", Detail: err.Error(), Code: "storage_unavailable"})
	case errors.Is(err, memory.ErrEmbeddingFailure):
		return c.JSON(http.StatusBadGateway, errorBody{
			Error: "embedding provider failed", Detail: err.Error(), Code: "embedding_failure"})
	case errors.Is(err, memory.ErrGenerationFailure):
		return c.JSON(http.StatusBadGateway, errorBody{
			Error: "generation failed", Detail: err.Error(), Code: "generation_failure"})
	default:
		return c.JSON(http.StatusInternalServerError, errorBody{
			Error: "internal error", Detail: err.Error(), Code: "internal"})
	}
}
