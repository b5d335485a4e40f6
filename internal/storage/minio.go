package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// EnsureBucket creates the clip bucket on a MinIO endpoint if it is missing.
// It is a no-op when no custom endpoint is configured.
func EnsureBucket(ctx context.Context, cfg S3Config) error {
	if cfg.Endpoint == "" {
		return nil
	}

	secure := strings.HasPrefix(cfg.Endpoint, "https://")
	host := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")

	client, err := minio.New(host, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if exists {
		return nil
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
	}
	log.Info().Str("bucket", cfg.Bucket).Str("endpoint", host).Msg("Created clip bucket")
	return nil
}
