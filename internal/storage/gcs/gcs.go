package gcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/hackhub/hackhub/pkg/config"
)

// Store uploads objects to a Google Cloud Storage bucket.
type Store struct {
	client  *storage.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func New(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (*Store, error) {
	var opts []option.ClientOption
	if cfg.GCSCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentials))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	return &Store{
		client:  client,
		bucket:  cfg.GCSBucket,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:  logger,
	}, nil
}

func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing object %s: %w", key, err)
	}

	s.logger.Debug("object uploaded", "bucket", s.bucket, "key", key, "bytes", len(data))
	return s.objectURL(key), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) objectURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}
