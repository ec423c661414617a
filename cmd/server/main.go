package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/estudiolex/subastas-backend/internal/config"
	"github.com/estudiolex/subastas-backend/internal/database"
	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/handlers"
	"github.com/estudiolex/subastas-backend/internal/logging"
	"github.com/estudiolex/subastas-backend/internal/middleware"
	"github.com/estudiolex/subastas-backend/internal/routes"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/estudiolex/subastas-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Storage backend
	uploader := storage.New(cfg)

	// Services
	authService := services.NewAuthService(db, cfg)
	activityService := services.NewActivityService(db)
	auctionService := services.NewAuctionService(db, uploader)
	contentService := services.NewContentService(db, uploader)
	practiceService := services.NewPracticeAreaService(db)
	teamService := services.NewTeamService(db, uploader)
	informationService := services.NewInformationService(db)
	settingsService := services.NewSettingsService(db)
	dashboardService := services.NewDashboardService(db)

	var sender services.MailSender
	if smtp := services.NewSMTPSender(cfg); smtp != nil {
		sender = smtp
	}
	newsletterService := services.NewNewsletterService(db, sender)

	// Bootstrap super admin from environment
	if err := authService.EnsureAdmin(); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler(cfg),
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authService, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, activityService),
		Health:      handlers.NewHealthHandler(db, cfg),
		Public:      handlers.NewPublicHandler(auctionService, contentService, practiceService, teamService, informationService, settingsService),
		Auctions:    handlers.NewAuctionHandler(auctionService, uploader, activityService, cfg),
		Content:     handlers.NewContentHandler(contentService, uploader, activityService, cfg),
		Practice:    handlers.NewPracticeAreaHandler(practiceService, activityService),
		Team:        handlers.NewTeamHandler(teamService, uploader, activityService, cfg),
		Information: handlers.NewInformationHandler(informationService, activityService),
		Settings:    handlers.NewSettingsHandler(settingsService, activityService),
		Newsletter:  handlers.NewNewsletterHandler(newsletterService, activityService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService, activityService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	activityService.Close()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// customErrorHandler keeps the response envelope uniform for errors that
// escape handlers (panics, body-limit rejections, unmatched routes). In
// production the 5xx detail stays in the logs.
func customErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Error interno del servidor"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			if code < fiber.StatusInternalServerError || !cfg.IsProduction() {
				message = e.Message
			}
		}

		if code >= fiber.StatusInternalServerError {
			slog.Error("unhandled request error", "path", c.Path(), "method", c.Method(), "error", err)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Success: false,
			Error:   dto.ErrorBody{Message: message},
		})
	}
}
