package dynamo

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/cockroachdb/errors"

	"riderequest/internal/domain"
	"riderequest/internal/repository"
)

// CarRepository is a DynamoDB implementation of repository.CarRepository.
type CarRepository struct {
	api    API
	table  string
	logger *slog.Logger
}

// NewCarRepository creates a car repository reading from the given table.
func NewCarRepository(api API, table string, logger *slog.Logger) *CarRepository {
	return &CarRepository{api: api, table: table, logger: logger}
}

// ListAll scans the whole cars table. Pages are followed until
// LastEvaluatedKey is empty so large tables are still read in full.
func (r *CarRepository) ListAll(ctx context.Context) (*repository.CarList, error) {
	r.logger.DebugContext(ctx, "starting scan of cars table", slog.String("table", r.table))

	paginator := dynamodb.NewScanPaginator(r.api, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})

	list := &repository.CarList{Items: []domain.Car{}}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "error retrieving cars", slog.String("table", r.table), slog.Any("error", err))
			return nil, errors.WithStack(err)
		}

		for _, item := range page.Items {
			var car domain.Car
			if err := attributevalue.UnmarshalMap(item, &car); err != nil {
				return nil, errors.Mark(errors.WithStack(err), repository.ErrMalformedItem)
			}
			list.Items = append(list.Items, car)
		}
		list.Count += int(page.Count)
	}

	r.logger.DebugContext(ctx, "cars retrieved", slog.String("table", r.table), slog.Int("count", list.Count))
	return list, nil
}
