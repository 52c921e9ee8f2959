package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hazard-notifier/internal/domain"
)

type dispatchAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	dynamodb.QueryAPIClient
}

// DispatchRepo stores dispatch summaries in the dispatches table.
type DispatchRepo struct {
	client    dispatchAPI
	tableName string
}

func NewDispatchRepo(client dispatchAPI, tableName string) *DispatchRepo {
	return &DispatchRepo{client: client, tableName: tableName}
}

func (r *DispatchRepo) Put(ctx context.Context, s *domain.DispatchSummary) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal dispatch: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DispatchRepo) Get(ctx context.Context, dispatchID string) (*domain.DispatchSummary, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(keyDispatchID, dispatchID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("dispatch %s: %w", dispatchID, domain.ErrNotFound)
	}
	var s domain.DispatchSummary
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByHazard returns every dispatch recorded for hazardID, newest first.
func (r *DispatchRepo) ListByHazard(ctx context.Context, hazardID string) ([]domain.DispatchSummary, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexHazardCreatedAt),
		KeyConditionExpression: aws.String("#hid = :hid"),
		ExpressionAttributeNames: map[string]string{
			"#hid": keyHazardID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":hid": &types.AttributeValueMemberS{Value: hazardID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	var summaries []domain.DispatchSummary
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query dispatches of %s: %w", hazardID, err)
		}
		var batch []domain.DispatchSummary
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal dispatches: %w", err)
		}
		summaries = append(summaries, batch...)
	}
	return summaries, nil
}
