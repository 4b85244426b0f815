package server

import (
	"time"

	"github.com/labstack/echo/v4"
)

// slowRequestThreshold is the duration above which requests log at WARN.
// Generation calls routinely exceed it; the signal is for the read paths.
const slowRequestThreshold = 2 * time.Second

// requestLogger logs every request with method, path, status and timing.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		duration := time.Since(start)
		attrs := []any{
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration_ms", duration.Milliseconds(),
		}

		switch {
		case err != nil:
			attrs = append(attrs, "error", err.Error())
			s.logger.Error("request failed", attrs...)
		case duration > slowRequestThreshold:
			s.logger.Warn("slow request", attrs...)
		default:
			s.logger.Debug("request completed", attrs...)
		}

		return err
	}
}
