package repository

import (
	"context"

	"riderequest/internal/domain"
)

// CarList is the result of reading the whole cars collection.
type CarList struct {
	Items []domain.Car
	Count int
}

// CarRepository defines the read operations for cars.
type CarRepository interface {
	// ListAll returns every car in the collection, unfiltered.
	ListAll(ctx context.Context) (*CarList, error)
}
