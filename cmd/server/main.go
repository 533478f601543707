package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/config"
	"github.com/atakamran/liftlegends-sub000/internal/database"
	"github.com/atakamran/liftlegends-sub000/internal/handlers"
	"github.com/atakamran/liftlegends-sub000/internal/logging"
	"github.com/atakamran/liftlegends-sub000/internal/mailer"
	"github.com/atakamran/liftlegends-sub000/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Backends
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	registry, closeBackends, err := database.ConnectBackends(connectCtx, cfg, zl)
	cancel()
	if err != nil {
		zl.Fatal("Failed to connect backends", zap.Error(err))
	}
	defer closeBackends()

	var notifier mailer.Notifier = mailer.NewLogNotifier(zl)
	if cfg.MailEnabled() {
		notifier = mailer.NewResendNotifier(cfg.ResendAPIKey, cfg.MailFrom)
	}

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(zl),
		BodyLimit:    1 << 20,
	})

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"backends": registry.Names(),
		})
	})
	hub := routes.RegisterRoutes(app, cfg, registry, notifier, zl)
	defer hub.Stop()

	// 4. Start Server
	serverErr := make(chan error, 1)
	go func() {
		zl.Info("Server starting", zap.String("port", cfg.Port), zap.Strings("backends", registry.Names()))
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zl.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("Shutdown failed", zap.Error(err))
		}
	}
}
