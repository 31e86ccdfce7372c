package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/residencia-tech/relatorio-api/internal/observability"
)

// Observability attaches Prometheus metrics and structured latency/error
// logging for the report and download endpoints.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		if !isReportPath(c.Path()) {
			return err
		}

		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		statusLabel := fmt.Sprintf("%d", status)

		observability.ReportRequests().WithLabelValues(method, route, statusLabel).Inc()
		observability.ReportLatency().WithLabelValues(method, route).Observe(duration.Seconds())
		if status >= fiber.StatusBadRequest {
			observability.ReportErrors().WithLabelValues(method, route, statusLabel).Inc()
		}

		requestLogger := logger.With().
			Str("correlation_id", GetCorrelationID(c)).
			Str("route", route).
			Str("method", method).
			Int("status", status).
			Float64("latency_ms", float64(duration)/float64(time.Millisecond)).
			Logger()

		switch {
		case status >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg("report request failed")
		case status >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg("report request completed with client error")
		default:
			requestLogger.Info().Msg("report request completed")
		}

		return err
	}
}

func isReportPath(path string) bool {
	return path == "/relatorio" ||
		strings.HasPrefix(path, "/download/") ||
		strings.HasPrefix(path, "/api/")
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}
