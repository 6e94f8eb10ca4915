package repository

import (
	"context"

	"riderequest/internal/domain"
)

// RideRepository defines the persistence operations for ride records.
type RideRepository interface {
	// Create writes a new ride record. Records are never updated or deleted.
	Create(ctx context.Context, ride *domain.RideRecord) error
}
