package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"riderequest/internal/domain"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q     Querier
	table string
}

// NewRideRepository creates a new PostgreSQL ride repository over table.
func NewRideRepository(db *sql.DB, table string) *RideRepository {
	return &RideRepository{q: db, table: table}
}

// Create persists a new ride record.
func (r *RideRepository) Create(ctx context.Context, ride *domain.RideRecord) error {
	query := `
		INSERT INTO ` + pq.QuoteIdentifier(r.table) + ` (ride_id, rider, car, car_name, request_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	car, err := json.Marshal(ride.Car)
	if err != nil {
		return errors.WithStack(err)
	}

	requestTime, err := time.Parse(domain.RequestTimeLayout, ride.RequestTime)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = r.q.ExecContext(ctx, query,
		ride.RideID,
		ride.User,
		car,
		ride.CarName,
		requestTime,
	)

	return errors.WithStack(err)
}
