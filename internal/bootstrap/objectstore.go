package bootstrap

import (
	"context"

	"github.com/studioform/portfolio-admin-backend/config"
	"github.com/studioform/portfolio-admin-backend/internal/objectstore"
)

func OpenObjectStore(ctx context.Context, cfg config.StorageConfig) (objectstore.Store, error) {
	return objectstore.NewS3(ctx, objectstore.S3Config{
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
		PathStyle: cfg.PathStyle,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	})
}
