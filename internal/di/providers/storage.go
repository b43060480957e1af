package providers

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/promptgallery/gallery-server/internal/config"
	"github.com/promptgallery/gallery-server/internal/imagehost"
)

// ProvideImageHost provides the S3-compatible image host.
func ProvideImageHost(i do.Injector) (imagehost.Host, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	host, err := imagehost.NewS3(context.Background(), imagehost.Config{
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UsePathStyle:    cfg.Storage.UsePathStyle,
		UploadURLExpiry: cfg.Storage.UploadURLExpiry,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Image host configured",
		"bucket", cfg.Storage.Bucket,
		"region", cfg.Storage.Region,
		"endpoint", cfg.Storage.Endpoint,
	)

	return host, nil
}
