package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/metrics"
)

// Storage folders for uploaded media.
const (
	FolderRecipeImages = "recipe_images"
	FolderRecipeVideos = "recipe_videos"
	FolderStepImages   = "recipe_steps"
	FolderAvatars      = "avatars"
)

// MediaStore persists uploaded files and returns the URL they are served from.
type MediaStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// S3MediaStore keeps media in an S3 bucket.
type S3MediaStore struct {
	s3Config *config.S3Config
}

func NewS3MediaStore(s3Config *config.S3Config) *S3MediaStore {
	return &S3MediaStore{s3Config: s3Config}
}

// Put uploads data under key and returns its public URL
func (s *S3MediaStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.s3Config.PublicURL(key), nil
}

// Delete removes the object behind url. URLs outside the bucket are ignored.
func (s *S3MediaStore) Delete(ctx context.Context, url string) error {
	key, ok := s.s3Config.KeyFromURL(url)
	if !ok {
		return nil
	}
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}

// mediaKind restricts an upload to a family of content types.
type mediaKind string

const (
	kindImage mediaKind = "image/"
	kindVideo mediaKind = "video/"
)

// storeUpload sniffs the upload's content and stores it under folder.
// A file of the wrong kind is reported as a ValidationError against field.
func storeUpload(ctx context.Context, store MediaStore, up *Upload, folder string, kind mediaKind, field string) (string, error) {
	rc, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", up.Filename, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read upload %s: %w", up.Filename, err)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), string(kind)) {
		metrics.MediaUploads.WithLabelValues(folder, "rejected").Inc()
		return "", newValidationError(field, fmt.Sprintf("Unsupported file type %s.", mt.String()))
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), mt.Extension())
	url, err := store.Put(ctx, key, mt.String(), data)
	if err != nil {
		metrics.MediaUploads.WithLabelValues(folder, "failed").Inc()
		return "", err
	}
	metrics.MediaUploads.WithLabelValues(folder, "stored").Inc()
	return url, nil
}

// discardMedia removes stored objects nothing references any more. Failures
// are logged and otherwise ignored.
func discardMedia(ctx context.Context, store MediaStore, urls []string) {
	if store == nil {
		return
	}
	for _, url := range urls {
		if err := store.Delete(ctx, url); err != nil {
			logging.Warn().Err(err).Str("url", url).Msg("failed to remove orphaned upload")
		}
	}
}
