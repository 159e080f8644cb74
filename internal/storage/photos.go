// Package storage resolves and removes profile photo objects.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/oggyb/lunchmatch/internal/config"
)

// DefaultPhotoURL is shown for users without a primary photo.
const DefaultPhotoURL = "images/default-profile.png"

// PhotoStore turns stored photo paths into URLs and deletes objects.
type PhotoStore interface {
	URL(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, path string) error
}

// New returns an S3 store when a bucket is configured, otherwise a
// static store serving paths under the public base URL.
func New(ctx context.Context, cfg *config.Config) (PhotoStore, error) {
	if cfg.Storage.Bucket == "" {
		return NewStaticStore(cfg.Storage.PublicBaseURL), nil
	}
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Storage.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Storage.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewS3Store(s3.NewFromConfig(awsCfg), cfg.Storage.Bucket, cfg.Storage.PresignTTL), nil
}

// S3Store keeps photos in a private bucket and hands out presigned GET URLs.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

func NewS3Store(client *s3.Client, bucket string, ttl time.Duration) *S3Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &S3Store{client: client, presign: s3.NewPresignClient(client), bucket: bucket, ttl: ttl}
}

func (s *S3Store) URL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return DefaultPhotoURL, nil
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", path, err)
	}
	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// StaticStore serves photos from a fixed base URL. Deletes are no-ops,
// the files are owned by whatever serves the base URL.
type StaticStore struct {
	base string
}

func NewStaticStore(base string) *StaticStore {
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &StaticStore{base: base}
}

func (s *StaticStore) URL(_ context.Context, path string) (string, error) {
	if path == "" {
		return DefaultPhotoURL, nil
	}
	return s.base + strings.TrimPrefix(path, "/"), nil
}

func (s *StaticStore) Delete(context.Context, string) error { return nil }
