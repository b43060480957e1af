package api

import "github.com/promptgallery/gallery-server/internal/service"

// Services groups the business logic used by the API server.
type Services struct {
	Auth       *service.AuthService
	Tag        *service.TagService
	Image      *service.ImageService
	Engagement *service.EngagementService
	Analytics  *service.AnalyticsService
}
