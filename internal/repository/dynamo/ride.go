package dynamo

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/cockroachdb/errors"

	"riderequest/internal/domain"
)

// RideRepository is a DynamoDB implementation of repository.RideRepository.
type RideRepository struct {
	api    API
	table  string
	logger *slog.Logger
}

// NewRideRepository creates a ride repository writing to the given table.
func NewRideRepository(api API, table string, logger *slog.Logger) *RideRepository {
	return &RideRepository{api: api, table: table, logger: logger}
}

// Create writes the ride record with a single PutItem. No condition is set:
// ride ids carry 128 bits of entropy and collisions are not checked.
func (r *RideRepository) Create(ctx context.Context, ride *domain.RideRecord) error {
	item, err := attributevalue.MarshalMap(ride)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "error writing ride", slog.String("ride_id", ride.RideID), slog.Any("error", err))
		return errors.WithStack(err)
	}

	return nil
}
