package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3URL(t *testing.T) {
	ctx := context.Background()

	t.Run("virtual hosted style", func(t *testing.T) {
		s, err := NewS3(ctx, S3Config{
			Bucket:    "portfolio",
			Region:    "eu-west-1",
			AccessKey: "key",
			SecretKey: "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://portfolio.s3.eu-west-1.amazonaws.com/uploads/a.png", s.URL("uploads/a.png"))
	})

	t.Run("custom endpoint", func(t *testing.T) {
		s, err := NewS3(ctx, S3Config{
			Bucket:    "portfolio",
			Endpoint:  "http://localhost:9000/",
			PathStyle: true,
			AccessKey: "key",
			SecretKey: "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/portfolio/uploads/a.png", s.URL("uploads/a.png"))
	})

	t.Run("bucket required", func(t *testing.T) {
		_, err := NewS3(ctx, S3Config{})
		require.Error(t, err)
	})
}
