package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riderequest/internal/app"
	"riderequest/internal/config"
	"riderequest/internal/handler"
	internalRedis "riderequest/internal/redis"
	"riderequest/internal/service"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST so the stores get instrumented.
	nrApp := app.NewNewRelic(cfg.NewRelic, logger)

	stores, err := app.NewStores(ctx, cfg, nrApp, logger)
	if err != nil {
		logger.Error("failed to initialize stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer stores.Close()

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info("idempotency cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	// Wire dependencies.
	rideService := service.NewRideService(stores.Cars, stores.Rides, service.RandomPicker{}, logger)
	deps := app.RouterDeps{
		RideHandler:   handler.NewRideHandler(rideService, cfg.Auth.UsernameClaim, logger),
		UsernameClaim: cfg.Auth.UsernameClaim,
		NewRelicApp:   nrApp,
		Logger:        logger,
	}
	if redisClient != nil {
		deps.IdempotencyCache = internalRedis.NewIdempotencyStore(redisClient)
	}
	router := app.NewRouter(deps)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info("server exited")
}
