// Package s3store keeps uploaded images in an S3 bucket. Clients write to it
// directly through presigned PUT URLs; the server only signs and deletes.
package s3store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/philly/snapgram/internal/posts/ports"
)

// Config holds configuration for the S3 object store.
type Config struct {
	Bucket string

	// Region is the AWS region (optional, uses SDK default if empty).
	Region string

	// Endpoint is the S3 endpoint URL for S3-compatible services. Setting it
	// also switches to path-style addressing.
	Endpoint string

	// PublicBaseURL is the endpoint browsers reach the bucket through, when
	// it differs from Endpoint. Upload URLs are signed for this host.
	PublicBaseURL string

	// Static credentials; when empty the SDK default chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// Store implements ports.ObjectStore.
type Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

var _ ports.ObjectStore = (*Store)(nil)

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3store: bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3store: load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, endpointOption(cfg.Endpoint))

	presignClient := client
	if cfg.PublicBaseURL != "" && cfg.PublicBaseURL != cfg.Endpoint {
		presignClient = s3.NewFromConfig(awsCfg, endpointOption(cfg.PublicBaseURL))
	}

	return &Store{
		client:    client,
		presigner: s3.NewPresignClient(presignClient),
		bucket:    cfg.Bucket,
	}, nil
}

func endpointOption(endpoint string) func(*s3.Options) {
	return func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}
}

// PresignPut signs a PUT that S3 only accepts with the declared type, length
// and checksum.
func (s *Store) PresignPut(ctx context.Context, in ports.PresignPutInput) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:         aws.String(s.bucket),
		Key:            aws.String(in.Key),
		ContentType:    aws.String(in.ContentType),
		ContentLength:  aws.Int64(in.ContentLength),
		ChecksumSHA256: aws.String(in.ChecksumSHA256),
		Metadata:       in.Metadata,
	}, s3.WithPresignExpires(in.Expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign put: %w", err)
	}
	return req.URL, nil
}

// DeleteObject removes key. S3 reports success for keys that do not exist.
func (s *Store) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}
