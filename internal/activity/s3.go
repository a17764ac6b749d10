package activity

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Store contains activities that move snapshot archives into a tenant's
// backup bucket via the S3 API.
type S3Store struct {
	logger    zerolog.Logger
	endpoint  string // non-empty for S3-compatible stores, e.g. a local minio
	accessKey string
	secretKey string
}

// NewS3Store creates a new S3Store activity struct.
func NewS3Store(logger zerolog.Logger, endpoint, accessKey, secretKey string) *S3Store {
	return &S3Store{
		logger:    logger.With().Str("component", "s3-store").Logger(),
		endpoint:  endpoint,
		accessKey: accessKey,
		secretKey: secretKey,
	}
}

// s3Client returns an S3 client for the given region.
func (a *S3Store) s3Client(region string) *s3.Client {
	opts := s3.Options{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(a.accessKey, a.secretKey, ""),
	}
	if a.endpoint != "" {
		opts.BaseEndpoint = aws.String(a.endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// UploadSnapshot streams a local snapshot archive into the bucket.
func (a *S3Store) UploadSnapshot(ctx context.Context, params UploadSnapshotParams) (*UploadResult, error) {
	f, err := os.Open(params.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat snapshot archive: %w", err)
	}

	a.logger.Info().
		Str("bucket", params.Bucket).
		Str("key", params.Key).
		Int64("size_bytes", info.Size()).
		Msg("uploading snapshot")

	client := a.s3Client(params.Region)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(params.Bucket),
		Key:           aws.String(params.Key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return nil, fmt.Errorf("put object s3://%s/%s: %w", params.Bucket, params.Key, err)
	}

	return &UploadResult{
		Location:  fmt.Sprintf("s3://%s/%s", params.Bucket, params.Key),
		SizeBytes: info.Size(),
	}, nil
}
