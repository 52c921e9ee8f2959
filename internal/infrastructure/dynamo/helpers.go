package dynamo

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hazard-notifier/internal/domain"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// recipientItem is the stored shape shared by the responders and users tables.
// The id attribute differs per table and is read separately.
type recipientItem struct {
	PushToken string   `dynamodbav:"push_token"`
	Latitude  *float64 `dynamodbav:"latitude"`
	Longitude *float64 `dynamodbav:"longitude"`
}

// decodeRecipient maps one scanned item to a Recipient. A location is set only
// when both coordinates are present.
func decodeRecipient(item map[string]types.AttributeValue, idKey string) (domain.Recipient, error) {
	var rec recipientItem
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Recipient{}, fmt.Errorf("unmarshal recipient: %w", err)
	}
	r := domain.Recipient{PushToken: rec.PushToken}
	if v, ok := item[idKey].(*types.AttributeValueMemberS); ok {
		r.ID = v.Value
	}
	if rec.Latitude != nil && rec.Longitude != nil {
		r.Location = &domain.GeoPoint{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
	}
	return r, nil
}
