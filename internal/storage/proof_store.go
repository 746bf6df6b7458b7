package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"rental-backend/internal/config"
	"rental-backend/internal/timeutil"
)

// ProofStore keeps payment proof images in an S3-compatible bucket
// (R2, minio or plain S3). Objects are keyed proofs/<unit>/<payment>/<ts>.
type ProofStore struct {
	client *s3.Client
	bucket string
}

func NewProofStore(ctx context.Context, cfg *config.Config) (*ProofStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
	})

	return &ProofStore{client: client, bucket: cfg.Storage.Bucket}, nil
}

// Upload stores a proof object and returns its key.
func (p *ProofStore) Upload(ctx context.Context, unitCode, paymentID string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("proofs/%s/%s/%d", unitCode, paymentID, timeutil.Now().Unix())
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload proof: %w", err)
	}
	return key, nil
}

// Download fetches a proof object by key.
func (p *ProofStore) Download(ctx context.Context, key string) ([]byte, string, error) {
	resp, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch proof %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read proof %s: %w", key, err)
	}
	contentType := "application/octet-stream"
	if resp.ContentType != nil {
		contentType = *resp.ContentType
	}
	return data, contentType, nil
}

// PresignGet returns a time-limited URL for viewing a proof.
func (p *ProofStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presigner := s3.NewPresignClient(p.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign proof %s: %w", key, err)
	}
	return req.URL, nil
}
