package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-api/configs"
	v1 "todo-api/internal/api/v1"
	"todo-api/internal/config"
	"todo-api/internal/middleware"
	"todo-api/internal/repository"
	"todo-api/internal/websocket"
	"todo-api/pkg/database"
	"todo-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg := configs.LoadConfig()

	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		log.Fatalf("Cannot create loggers: %v", err)
	}
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	if err := run(cfg); err != nil {
		logger.ErrorLogger.Error("Application stopped", zap.Error(err))
		logger.SyncLoggers()
		os.Exit(1)
	}
}

func run(cfg configs.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.SystemLogger.Info("Database Connected")

	if err := repository.CreateTableIfNotExists(db); err != nil {
		return err
	}

	deps := config.Dependencies{
		DB:       db,
		CacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
		Hub:      websocket.NewHub(),
	}

	if cfg.RedisEnabled() {
		deps.Redis, err = database.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer deps.Redis.Close()
		logger.SystemLogger.Info("Redis Connected", zap.String("addr", cfg.RedisAddr()))
	}

	go deps.Hub.Run(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.AppErrorHandler,
	})

	// Middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.ErrorHandler())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
	}))

	app.Get("/metrics", middleware.MetricsHandler())
	v1.RegisterRoutes(app, deps)

	go func() {
		<-ctx.Done()
		logger.SystemLogger.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.ErrorLogger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	return app.Listen(addr)
}
