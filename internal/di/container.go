// Package di provides dependency injection configuration for the gallery server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/promptgallery/gallery-server/internal/auth"
	"github.com/promptgallery/gallery-server/internal/config"
	"github.com/promptgallery/gallery-server/internal/di/providers"
	"github.com/promptgallery/gallery-server/internal/imagehost"
	"github.com/promptgallery/gallery-server/internal/service"
	"github.com/promptgallery/gallery-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideImageHost)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideImageService)
	do.Provide(injector, providers.ProvideEngagementService)
	do.Provide(injector, providers.ProvideAnalyticsService)

	// Workers
	do.Provide(injector, providers.ProvideRateLimiters)
	do.Provide(injector, providers.ProvidePendingUploadReaper)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Providers are lazy, so this is where
// configuration, database and image host errors surface.
func Bootstrap(injector *do.RootScope) error {
	steps := []func(do.Injector) error{
		invoke[*config.Config],
		invoke[*slog.Logger],
		invoke[providers.AuthKey],
		invoke[*validation.Validator],
		invoke[*providers.StoreHandle],
		invoke[imagehost.Host],
		invoke[*auth.TokenService],

		// Business services
		invoke[*service.AuthService],
		invoke[*service.TagService],
		invoke[*service.ImageService],
		invoke[*service.EngagementService],
		invoke[*service.AnalyticsService],

		// Workers
		invoke[*providers.RateLimiters],
		invoke[*providers.PendingUploadReaper],

		// Server
		invoke[*providers.HTTPServerHandle],
	}
	for _, step := range steps {
		if err := step(injector); err != nil {
			return err
		}
	}
	return nil
}

func invoke[T any](i do.Injector) error {
	_, err := do.Invoke[T](i)
	return err
}
