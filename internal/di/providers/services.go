package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/promptgallery/gallery-server/internal/auth"
	"github.com/promptgallery/gallery-server/internal/config"
	"github.com/promptgallery/gallery-server/internal/imagehost"
	"github.com/promptgallery/gallery-server/internal/service"
	"github.com/promptgallery/gallery-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, v, cfg.Auth.AdminEmail, log), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewTagService(storeHandle.Store, log), nil
}

// ProvideImageService provides the image service.
func ProvideImageService(i do.Injector) (*service.ImageService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	host := do.MustInvoke[imagehost.Host](i)
	tags := do.MustInvoke[*service.TagService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewImageService(storeHandle.Store, host, tags, v, service.UploadConfig{
		MaxFileSize: cfg.Uploads.MaxFileSize,
	}, log), nil
}

// ProvideEngagementService provides the likes and counters service.
func ProvideEngagementService(i do.Injector) (*service.EngagementService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewEngagementService(storeHandle.Store, log), nil
}

// ProvideAnalyticsService provides the upload analytics service.
func ProvideAnalyticsService(i do.Injector) (*service.AnalyticsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewAnalyticsService(storeHandle.Store, log), nil
}
