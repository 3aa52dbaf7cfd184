package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub/internal/storage/gcs"
	"github.com/hackhub/hackhub/internal/storage/memory"
	"github.com/hackhub/hackhub/internal/storage/s3"
	"github.com/hackhub/hackhub/pkg/config"
)

// Provider stores binary objects and returns a publicly reachable URL.
type Provider interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// New selects the provider implementation from config.
func New(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (Provider, error) {
	switch cfg.Provider {
	case "s3":
		return s3.New(ctx, cfg, logger)
	case "gcs":
		return gcs.New(ctx, cfg, logger)
	case "memory":
		return memory.New(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %q", cfg.Provider)
	}
}

// AvatarKey builds the object key for a user's avatar. The timestamp keeps
// old CDN caches from serving a replaced image.
func AvatarKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_%s_%d", userID, time.Now().Unix())
}
