package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/newrelic/go-agent/v3/integrations/nrlambda"
	"github.com/newrelic/go-agent/v3/newrelic"

	"riderequest/internal/app"
	"riderequest/internal/config"
	"riderequest/internal/handler"
	"riderequest/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	// Store clients are built once per execution environment and reused
	// across invocations.
	ctx := context.Background()

	nrApp := newLambdaNewRelic(cfg.NewRelic, logger)

	stores, err := app.NewStores(ctx, cfg, nrApp, logger)
	if err != nil {
		logger.Error("failed to initialize stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer stores.Close()

	rideService := service.NewRideService(stores.Cars, stores.Rides, service.RandomPicker{}, logger)
	rideHandler := handler.NewRideHandler(rideService, cfg.Auth.UsernameClaim, logger)

	if nrApp != nil {
		nrlambda.Start(rideHandler.RequestRide, nrApp)
		return
	}
	lambda.Start(rideHandler.RequestRide)
}

// newLambdaNewRelic starts the agent in Lambda mode, where telemetry is
// shipped through the New Relic Lambda extension instead of the collector.
func newLambdaNewRelic(cfg config.NewRelicConfig, logger *slog.Logger) *newrelic.Application {
	if !cfg.Enabled {
		return nil
	}

	nrApp, err := newrelic.NewApplication(
		nrlambda.ConfigOption(),
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		logger.Warn("failed to initialize New Relic", slog.Any("error", err))
		return nil
	}
	return nrApp
}
