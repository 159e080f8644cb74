package storage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/lunchmatch/internal/config"
	"github.com/oggyb/lunchmatch/internal/storage"
)

func TestStaticStore(t *testing.T) {
	ctx := context.Background()
	s := storage.NewStaticStore("/static")

	url, err := s.URL(ctx, "profiles/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/static/profiles/1.jpg", url)

	url, err = s.URL(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, storage.DefaultPhotoURL, url)

	assert.NoError(t, s.Delete(ctx, "profiles/1.jpg"))
}

func TestNew_WithoutBucket(t *testing.T) {
	cfg := config.New()
	cfg.Storage.Bucket = ""

	s, err := storage.New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.StaticStore{}, s)
}

func TestS3Store_PresignsLocally(t *testing.T) {
	client := s3.New(s3.Options{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	})
	s := storage.NewS3Store(client, "lunch-photos", 15*time.Minute)

	url, err := s.URL(context.Background(), "profiles/1.jpg")
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "lunch-photos"))
	assert.Contains(t, url, "profiles/1.jpg")
	assert.Contains(t, url, "X-Amz-Expires=900")
}
