package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"domain-metrics/internal/adapters/providers"
	"domain-metrics/internal/adapters/session"
	"domain-metrics/internal/adapters/web"
	"domain-metrics/internal/config"
	"domain-metrics/internal/usecases"
	"domain-metrics/pkg/log"
	"domain-metrics/pkg/log/transporters"
)

func main() {
	// .env is optional; real environment variables win.
	envErr := godotenv.Load()

	cfg, warnings := config.Load()

	logger := newLogger(cfg)
	log.SetDefault(logger)
	defer logger.Close()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.GlobalWarn("failed to load .env", "error", envErr)
	}
	for _, w := range warnings {
		log.GlobalWarn("config", "detail", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Provider endpoints, hot-reloaded
	providerSettings, err := config.LoadProviders(cfg.ProvidersPath)
	if err != nil {
		log.GlobalFatal("failed to load provider config", "path", cfg.ProvidersPath, "error", err)
		logger.Close()
		os.Exit(1)
	}
	go providerSettings.Watch(ctx, 10*time.Second)

	// Initialize adapters
	client := providers.NewClient(providerSettings, cfg.FetchTimeout)
	newEngine := func() *usecases.Engine {
		return usecases.NewEngine(client.Providers())
	}
	sessions := session.NewStore(cfg.SessionTTL, newEngine)
	quota := web.NewQuotaTracker(cfg.QuotaLimit, cfg.QuotaWindow)
	go quota.Run(ctx, 5*time.Minute)

	// Initialize web handlers
	handlers := web.NewHandlers(sessions, quota, newEngine, cfg.FetchTimeout)

	app := fiber.New(fiber.Config{
		AppName:     "Domain Metrics Checker",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestIDToContextMiddleware())
	app.Use(web.RequestLoggerMiddleware())

	web.SetupRoutes(app, handlers, sessions)

	go func() {
		<-ctx.Done()
		log.GlobalInfo("shutting down")
		if err := app.ShutdownWithTimeout(cfg.FetchTimeout + 5*time.Second); err != nil {
			log.GlobalError("shutdown failed", "error", err)
		}
	}()

	log.GlobalInfo("starting server", "port", cfg.Port, "log_level", cfg.LogLevel, "providers", cfg.ProvidersPath)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.GlobalError("server stopped", "error", err)
	}
}

func newLogger(cfg config.Config) *log.Logger {
	if cfg.LogFormat == "text" {
		return log.New(cfg.LogLevel, transporters.NewText())
	}
	return log.New(cfg.LogLevel, transporters.NewJSON())
}
