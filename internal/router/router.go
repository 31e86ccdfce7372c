package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/residencia-tech/relatorio-api/internal/config"
	"github.com/residencia-tech/relatorio-api/internal/handler"
	"github.com/residencia-tech/relatorio-api/internal/middleware"
	"github.com/residencia-tech/relatorio-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ReportHandler *handler.ReportHandler
	JWTMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application. The form, report
// page and downloads stay public; the JSON API is JWT-protected when a secret
// is configured.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	if deps.ReportHandler != nil {
		app.Get("/", deps.ReportHandler.FormPage)
		app.Post("/relatorio", deps.ReportHandler.ReportPage)

		download := app.Group("/download", middleware.RateLimit("download", cfg.DownloadLimit, time.Minute))
		download.Get("/excel", deps.ReportHandler.DownloadExcel)
		download.Get("/pdf", deps.ReportHandler.DownloadPDF)
	}

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.ReportHandler != nil {
		jwtMiddleware := deps.JWTMiddleware
		if jwtMiddleware == nil {
			jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
		}
		api.Get("/relatorio", jwtMiddleware, deps.ReportHandler.API)
	}

	app.Get("/metrics", observability.MetricsHandler())
}
