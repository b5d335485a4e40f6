package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	// ErrInvalidContentType is returned for clip formats the service does not accept
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrClipNotFound is returned when no clip is stored under a key
	ErrClipNotFound = errors.New("clip not found")
)

// ClipStorage handles voice clip storage operations
type ClipStorage interface {
	UploadClip(ctx context.Context, key string, contentType string, data []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DownloadClip(ctx context.Context, key string) ([]byte, string, error)
	DeleteClip(ctx context.Context, key string) error
}

type s3Service struct {
	client    *s3.Client
	bucket    string
	urlExpiry time.Duration
}

// S3Config holds configuration for S3 service
type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Service creates a new S3-backed clip storage
func NewS3Service(ctx context.Context, cfg S3Config) (ClipStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}

	region := cfg.Region
	if cfg.Endpoint != "" || region == "" {
		region = "us-east-1" // MinIO doesn't care about region
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		endpoint := endpointURL(cfg.Endpoint)
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true // MinIO requires path-style URLs
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &s3Service{
		client:    client,
		bucket:    cfg.Bucket,
		urlExpiry: 24 * time.Hour, // Playback links valid for 24 hours
	}, nil
}

// UploadClip stores a clip under key
func (s *s3Service) UploadClip(ctx context.Context, key string, contentType string, data []byte) error {
	if err := ValidateContentType(contentType); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload clip: %w", err)
	}
	return nil
}

// GenerateDownloadURL generates a pre-signed URL for playing back a clip
func (s *s3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.urlExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}

	return request.URL, nil
}

// DownloadClip downloads a clip and its content type from S3/MinIO
func (s *s3Service) DownloadClip(ctx context.Context, key string) ([]byte, string, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, "", fmt.Errorf("%w: %s", ErrClipNotFound, key)
		}
		return nil, "", fmt.Errorf("failed to download clip: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read clip body: %w", err)
	}
	return data, aws.ToString(result.ContentType), nil
}

// DeleteClip deletes a clip from S3/MinIO
func (s *s3Service) DeleteClip(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete clip: %w", err)
	}
	return nil
}

// ValidateContentType validates that the content type is a supported recording format.
// Codec parameters such as "audio/webm;codecs=opus" are accepted.
func ValidateContentType(contentType string) error {
	validTypes := map[string]bool{
		"audio/wav":  true,
		"audio/mpeg": true,
		"audio/flac": true,
		"audio/webm": true, // Browser MediaRecorder WebM format
		"audio/ogg":  true, // Browser MediaRecorder OGG format (fallback)
		"audio/mp4":  true, // Safari MediaRecorder
	}

	base, _, _ := strings.Cut(contentType, ";")
	if !validTypes[strings.TrimSpace(strings.ToLower(base))] {
		return fmt.Errorf("%w: %s. Supported types: audio/wav, audio/mpeg, audio/flac, audio/webm, audio/ogg, audio/mp4", ErrInvalidContentType, contentType)
	}

	return nil
}

func endpointURL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return "http://" + endpoint
	}
	return endpoint
}
