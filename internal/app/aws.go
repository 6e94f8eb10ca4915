package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	nrawssdk "github.com/newrelic/go-agent/v3/integrations/nrawssdk-v2"
	"github.com/newrelic/go-agent/v3/newrelic"

	"riderequest/internal/config"
)

// NewDynamoDBClient loads the default AWS config (execution role in Lambda,
// the usual credential chain elsewhere) and builds a DynamoDB client.
// When nrApp is set every call is recorded as a datastore segment of the
// transaction found in the request context.
func NewDynamoDBClient(ctx context.Context, cfg config.AWSConfig, nrApp *newrelic.Application) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	if nrApp != nil {
		nrawssdk.AppendMiddlewares(&awsCfg.APIOptions, nil)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}
