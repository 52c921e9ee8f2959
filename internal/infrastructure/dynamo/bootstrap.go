package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hazard-notifier/internal/config"
)

type tableCreator interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Bootstrap creates the recipient, hazard and dispatch tables if they don't
// already exist. Safe to call on every startup.
func Bootstrap(ctx context.Context, client tableCreator, tables config.DynamoTables) {
	for _, input := range tableInputs(tables) {
		createTable(ctx, client, input)
	}
}

func tableInputs(tables config.DynamoTables) []*dynamodb.CreateTableInput {
	hazards := hashTable(tables.Hazards, keyHazardID)
	// New hazard records feed cmd/stream.
	hazards.StreamSpecification = &types.StreamSpecification{
		StreamEnabled:  aws.Bool(true),
		StreamViewType: types.StreamViewTypeNewImage,
	}

	dispatches := hashTable(tables.Dispatches, keyDispatchID)
	dispatches.AttributeDefinitions = append(dispatches.AttributeDefinitions,
		types.AttributeDefinition{AttributeName: aws.String(keyHazardID), AttributeType: types.ScalarAttributeTypeS},
		types.AttributeDefinition{AttributeName: aws.String(fieldCreatedAt), AttributeType: types.ScalarAttributeTypeS},
	)
	dispatches.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{
		gsi(indexHazardCreatedAt, keyHazardID, fieldCreatedAt),
	}

	return []*dynamodb.CreateTableInput{
		hashTable(tables.Responders, keyResponderID),
		hashTable(tables.Users, keyUserID),
		hazards,
		dispatches,
	}
}

// hashTable describes an on-demand table keyed by a single string attribute.
func hashTable(name, key string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(key), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(key), KeyType: types.KeyTypeHash},
		},
	}
}

func gsi(indexName, hashKey, sortKey string) types.GlobalSecondaryIndex {
	return types.GlobalSecondaryIndex{
		IndexName: aws.String(indexName),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(sortKey), KeyType: types.KeyTypeRange},
		},
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func createTable(ctx context.Context, client tableCreator, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			slog.Warn("could not create table", "table", *input.TableName, "err", err)
		}
		return
	}
	slog.Info("created table", "table", *input.TableName)
}
