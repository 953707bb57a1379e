package blob

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/verdantpress/blogapi/internal/config"
)

// S3Store uploads assets to an S3-compatible bucket (Cloudflare R2 in
// production). The deletion handle is the object key.
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
	maxSize   int64
}

// NewS3Store builds a client against the configured R2 endpoint using
// static credentials.
func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.R2Bucket,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
		maxSize:   cfg.MaxImageSize,
	}, nil
}

// Store uploads data under a generated key and returns the public URL
// plus the key as deletion handle.
func (s *S3Store) Store(ctx context.Context, data []byte, mimeType, folder string) (Stored, error) {
	if int64(len(data)) > s.maxSize {
		return Stored{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrPayloadTooLarge, len(data), s.maxSize)
	}

	key := objectKey(folder, mimeType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return Stored{}, fmt.Errorf("%w: put %s: %v", ErrStorageUnavailable, key, err)
	}

	return Stored{
		URL:    s.publicURL + "/" + key,
		Handle: key,
	}, nil
}

// Delete removes the object behind handle. S3 deletes are idempotent, so
// a missing object is not surfaced as an error.
func (s *S3Store) Delete(ctx context.Context, handle string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStorageUnavailable, handle, err)
	}
	return nil
}

func objectKey(folder, mimeType string) string {
	ext := ".bin"
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		ext = exts[len(exts)-1]
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "uploads"
	}
	return folder + "/" + uuid.NewString() + ext
}
