package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/newrelic/go-agent/v3/newrelic"

	"riderequest/internal/config"
	"riderequest/internal/repository"
	"riderequest/internal/repository/dynamo"
	"riderequest/internal/repository/postgres"
)

// Stores bundles the repositories of the selected backend.
type Stores struct {
	Cars  repository.CarRepository
	Rides repository.RideRepository

	closer io.Closer
}

// Close releases backend resources, if any.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NewStores builds the repositories for cfg.Store.Backend.
func NewStores(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, logger *slog.Logger) (*Stores, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db, cfg.Store.CarsTable, cfg.Store.RidesTable); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("using PostgreSQL store",
			slog.String("host", cfg.Database.Host),
			slog.String("cars_table", cfg.Store.CarsTable),
			slog.String("rides_table", cfg.Store.RidesTable),
		)
		return &Stores{
			Cars:   postgres.NewCarRepository(db, cfg.Store.CarsTable),
			Rides:  postgres.NewRideRepository(db, cfg.Store.RidesTable),
			closer: db,
		}, nil

	default:
		client, err := NewDynamoDBClient(ctx, cfg.AWS, nrApp)
		if err != nil {
			return nil, err
		}
		logger.Info("using DynamoDB store",
			slog.String("cars_table", cfg.Store.CarsTable),
			slog.String("rides_table", cfg.Store.RidesTable),
		)
		return &Stores{
			Cars:  dynamo.NewCarRepository(client, cfg.Store.CarsTable, logger),
			Rides: dynamo.NewRideRepository(client, cfg.Store.RidesTable, logger),
		}, nil
	}
}
