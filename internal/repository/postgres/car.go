package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"riderequest/internal/domain"
	"riderequest/internal/repository"
)

// CarRepository is a PostgreSQL implementation of repository.CarRepository.
// Each row keeps the full car item as JSONB in the attributes column.
type CarRepository struct {
	q     Querier
	table string
}

// NewCarRepository creates a new PostgreSQL car repository over table.
func NewCarRepository(db *sql.DB, table string) *CarRepository {
	return &CarRepository{q: db, table: table}
}

// ListAll returns every car, unfiltered.
func (r *CarRepository) ListAll(ctx context.Context) (*repository.CarList, error) {
	query := `SELECT attributes FROM ` + pq.QuoteIdentifier(r.table)

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	list := &repository.CarList{Items: []domain.Car{}}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.WithStack(err)
		}

		car, err := decodeCar(raw)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, car)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	list.Count = len(list.Items)
	return list, nil
}

func decodeCar(raw []byte) (domain.Car, error) {
	var car domain.Car
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&car); err != nil {
		return nil, errors.Mark(errors.WithStack(err), repository.ErrMalformedItem)
	}
	if car == nil {
		return nil, errors.Mark(errors.New("car attributes are null"), repository.ErrMalformedItem)
	}
	return car, nil
}
