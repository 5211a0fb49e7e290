package s3

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"socialgram-backend/application/ports"
	pkgerrors "socialgram-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaStore uploads post media to S3 and returns the public URL. The
// backend never stores bytes itself, only the returned reference.
type MediaStore struct {
	client  *awss3.Client
	bucket  string
	baseURL string
	region  string
	logger  *zap.Logger
}

// NewMediaStore creates a new MediaStore. baseURL overrides the default
// S3 URL when media is served through a CDN.
func NewMediaStore(client *awss3.Client, bucket, baseURL, region string, logger *zap.Logger) ports.MediaStore {
	return &MediaStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		region:  region,
		logger:  logger,
	}
}

// Store uploads the file under a fresh key and returns its URL. The key
// is random so uploads can never collide or overwrite each other.
func (s *MediaStore) Store(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("posts/%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(filename)))

	input := &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("Failed to upload media",
			zap.Error(err),
			zap.String("key", key),
		)
		return "", pkgerrors.NewExternalError("s3", err)
	}

	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
