package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/hazard-notifier/internal/domain"
)

// DirectoryRepo enumerates recipients from the responders and users tables.
type DirectoryRepo struct {
	client          dynamodb.ScanAPIClient
	respondersTable string
	usersTable      string
}

func NewDirectoryRepo(client dynamodb.ScanAPIClient, respondersTable, usersTable string) *DirectoryRepo {
	return &DirectoryRepo{client: client, respondersTable: respondersTable, usersTable: usersTable}
}

func (r *DirectoryRepo) ListResponders(ctx context.Context) ([]domain.Recipient, error) {
	return r.scanAll(ctx, r.respondersTable, keyResponderID)
}

func (r *DirectoryRepo) ListUsers(ctx context.Context) ([]domain.Recipient, error) {
	return r.scanAll(ctx, r.usersTable, keyUserID)
}

// scanAll walks every page of table. Records that fail to decode are an error:
// a partial snapshot would silently drop recipients.
func (r *DirectoryRepo) scanAll(ctx context.Context, table, idKey string) ([]domain.Recipient, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:            aws.String(table),
		ProjectionExpression: aws.String("#id, #tok, #lat, #lng"),
		ExpressionAttributeNames: map[string]string{
			"#id":  idKey,
			"#tok": fieldPushToken,
			"#lat": fieldLatitude,
			"#lng": fieldLongitude,
		},
	})

	var out []domain.Recipient
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		for _, item := range page.Items {
			rcp, err := decodeRecipient(item, idKey)
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", table, err)
			}
			out = append(out, rcp)
		}
	}
	return out, nil
}
