package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/config"
	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultRegion = "us-east-1"

// ObjectStore is what profile and project use cases need from file storage.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Bucket struct {
	client     *minio.Client
	name       string
	presignTTL time.Duration

	ensureOnce sync.Once
	ensureErr  error
}

// NewBucket returns nil when no endpoint is configured.
func NewBucket(cfg *config.StorageConfig) (*Bucket, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: defaultRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Bucket{
		client:     client,
		name:       strings.TrimSpace(cfg.Bucket),
		presignTTL: ttl,
	}, nil
}

func (b *Bucket) EnsureBucket(ctx context.Context) error {
	b.ensureOnce.Do(func() {
		exists, err := b.client.BucketExists(ctx, b.name)
		if err != nil {
			b.ensureErr = err
			return
		}
		if exists {
			return
		}
		b.ensureErr = b.client.MakeBucket(ctx, b.name, minio.MakeBucketOptions{Region: defaultRegion})
	})

	if b.ensureErr != nil {
		return fmt.Errorf("ensure bucket %q: %w", b.name, b.ensureErr)
	}
	return nil
}

func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" || body == nil || size <= 0 {
		return domain.ErrInvalidInput
	}

	_, err := b.client.PutObject(ctx, b.name, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (b *Bucket) PresignGet(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", domain.ErrInvalidInput
	}

	presigned, err := b.client.PresignedGetObject(ctx, b.name, key, b.presignTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return presigned.String(), nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := b.client.RemoveObject(ctx, b.name, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// ObjectKey builds a unique key such as "avatars/<owner>/<id>.png".
// Only JPEG, PNG and WebP images are accepted.
func ObjectKey(prefix string, ownerID uuid.UUID, contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", domain.ErrInvalidInput
	}
	return fmt.Sprintf("%s/%s/%s%s", prefix, ownerID, uuid.NewString(), ext), nil
}
