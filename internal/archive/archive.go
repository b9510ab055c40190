// Package archive optionally stores analyzed source images in
// S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nightdust/imgmeta/internal/config"
	"github.com/nightdust/imgmeta/internal/logger"
	"github.com/nightdust/imgmeta/pkg/common"
)

// Archive uploads image bytes to a bucket, keyed by capture date.
type Archive struct {
	client *minio.Client
	cfg    config.ArchiveConfig
}

// New creates an archive sink and verifies the target bucket exists.
func New(ctx context.Context, cfg config.ArchiveConfig) (*Archive, error) {
	if cfg.Endpoint == "" {
		return nil, common.NewConfigError("archive endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, common.NewConfigError("archive bucket name is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, common.NewConfigError("archive access key and secret key are required")
	}

	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create archive client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	logger.Info("archive connected to %s, bucket %s", endpoint, cfg.Bucket)

	return &Archive{client: client, cfg: cfg}, nil
}

// Store uploads one image under a date-partitioned key, sniffing the
// content type from the bytes themselves.
func (a *Archive) Store(ctx context.Context, name string, data []byte) error {
	contentType := mimetype.Detect(data).String()
	key := a.objectKey(name)

	info, err := a.client.PutObject(ctx, a.cfg.Bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to archive image: %w", err)
	}

	logger.Debug("archived %s (%d bytes, etag: %s)", key, info.Size, info.ETag)
	return nil
}

func (a *Archive) objectKey(name string) string {
	day := time.Now().UTC().Format("2006/01/02")
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if a.cfg.Prefix == "" {
		return path.Join(day, base)
	}
	return path.Join(strings.TrimSuffix(a.cfg.Prefix, "/"), day, base)
}
