package s3infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hazard-notifier/internal/domain"
)

// objectPutter is the subset of *s3.Client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewClient creates an S3 client. A non-empty endpoint (LocalStack) overrides
// the resolved one and enables path-style addressing.
func NewClient(awsCfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// Archive writes dispatch summaries to S3 as JSON documents.
type Archive struct {
	client objectPutter
	bucket string
	prefix string
}

func NewArchive(client objectPutter, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for s: <prefix>/<hazardId>/<dispatchId>.json.
func (a *Archive) Key(s *domain.DispatchSummary) string {
	hazard := s.HazardID
	if hazard == "" {
		hazard = "_unknown"
	}
	return path.Join(a.prefix, hazard, s.DispatchID+".json")
}

// Put stores s and returns its s3:// URL.
func (a *Archive) Put(ctx context.Context, s *domain.DispatchSummary) (string, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal dispatch: %w", err)
	}
	key := a.Key(s)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
