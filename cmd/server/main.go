package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/counter"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()
	level := logging.ParseLevel(cfg.LogLevel)

	// Structured logging (JSON to stdout)
	logging.Setup(level)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateShared(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.Install(database.DB, level)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	ctx := context.Background()

	failures, closeFailures, err := newFailureCounter(ctx, cfg, cleanupDone)
	if err != nil {
		slog.Error("failure counter init failed", "error", err)
		os.Exit(1)
	}

	proofs, err := newProofStore(ctx, cfg)
	if err != nil {
		slog.Error("proof storage init failed", "backend", cfg.ProofStorage, "error", err)
		os.Exit(1)
	}

	// Services
	reports := repository.NewReportRepository(database.DB)
	intakeService := services.NewIntakeService(reports, proofs, services.IntakeConfig{
		MaxProofBytes: cfg.ProofMaxBytes,
		ScamDateFloor: cfg.ScamDateFloor(),
	})
	lifecycleService := services.NewLifecycleService(reports)
	queryService := services.NewReportQueryService(reports, proofs)
	authService := services.NewAuthService(database.DB, cfg, failures)
	userService := services.NewUserService(database.DB)
	contactService := services.NewContactService(database.DB, proofs, cfg.ProofMaxBytes)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(database.DB)
	metaHandler := handlers.NewMetaHandler(intakeService)
	reportHandler := handlers.NewReportHandler(intakeService, lifecycleService, queryService)
	contactHandler := handlers.NewContactHandler(contactService)
	userHandler := handlers.NewUserHandler(userService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Multipart bodies carry the proof plus a few form fields.
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.ProofMaxBytes) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

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
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, metaHandler, reportHandler, contactHandler, userHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "proof_storage", cfg.ProofStorage)
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

	close(cleanupDone)
	if err := closeFailures(); err != nil {
		slog.Error("failure counter close error", "error", err)
	}
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(database.DB); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// newFailureCounter picks Redis when REDIS_URL is set so lockouts survive
// restarts and are shared between replicas.
func newFailureCounter(ctx context.Context, cfg *config.Config, done chan struct{}) (counter.Counter, func() error, error) {
	if cfg.RedisURL != "" {
		rc, err := counter.NewRedisCounter(ctx, cfg.RedisURL, "scamwatch:login:")
		if err != nil {
			return nil, nil, err
		}
		slog.Info("login counters backed by redis")
		return rc, rc.Close, nil
	}
	mc := counter.NewMemoryCounter()
	mc.StartSweeper(time.Minute, done)
	return mc, func() error { return nil }, nil
}

func newProofStore(ctx context.Context, cfg *config.Config) (storage.ProofStore, error) {
	if cfg.ProofStorage == "s3" {
		return storage.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	}
	return storage.NewLocalStore(cfg.ProofLocalDir)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
