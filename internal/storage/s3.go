package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"seowriter/internal/config"
)

// S3 configuration errors.
var (
	ErrMissingBucket      = errors.New("S3 bucket and region are required")
	ErrMissingCredentials = errors.New("S3 credentials are required")
)

// S3 stores articles in an S3-compatible bucket (AWS, MinIO, Spaces).
type S3 struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

// NewS3 creates an S3 store from static credentials.
func NewS3(ctx context.Context, cfg config.S3Config) (*S3, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrMissingBucket
	}

	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, ErrMissingCredentials
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}

		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

// SaveArticle uploads html and returns the object key.
func (s *S3) SaveArticle(ctx context.Context, name, html string) (string, error) {
	if name == "" {
		return "", ErrEmptySlug
	}

	key := articleKey(s.now(), name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(html),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload article to S3: %w", err)
	}

	return key, nil
}
