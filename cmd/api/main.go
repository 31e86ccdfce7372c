package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/residencia-tech/relatorio-api/internal/config"
	"github.com/residencia-tech/relatorio-api/internal/database"
	"github.com/residencia-tech/relatorio-api/internal/handler"
	"github.com/residencia-tech/relatorio-api/internal/middleware"
	"github.com/residencia-tech/relatorio-api/internal/models"
	"github.com/residencia-tech/relatorio-api/internal/repository"
	"github.com/residencia-tech/relatorio-api/internal/router"
	"github.com/residencia-tech/relatorio-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.Group{}, &models.Activity{}, &models.Instructor{}, &models.Participation{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	participationRepo := repository.NewParticipationRepository(db)
	lookupRepo := repository.NewLookupRepository(db)

	reportService := service.NewReportService(participationRepo, validate, cfg.QueryTimeout, logger)
	lookupService := service.NewLookupService(lookupRepo, redisClient, cfg.LookupCacheTTL, logger)

	reportHandler := handler.NewReportHandler(reportService, lookupService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})

	var jwtMiddleware fiber.Handler
	if cfg.JWTSecret != "" {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	router.Register(app, cfg, router.Dependencies{
		ReportHandler: reportHandler,
		JWTMiddleware: jwtMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
