package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptgallery/gallery-server/internal/domain"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListImages",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/images",
		Summary:     "List all images",
		Description: "Returns every image, including private and pending ones, with tags",
		Tags:        []string{tagAdmin},
		Security:    bearerSecurity,
	}, s.handleAdminListImages)

	huma.Register(s.api, huma.Operation{
		OperationID:   "adminDeleteImage",
		Method:        http.MethodDelete,
		Path:          "/api/v1/admin/images/{id}",
		Summary:       "Delete image",
		Description:   "Deletes the image record and its stored object",
		Tags:          []string{tagAdmin},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusNoContent,
	}, s.handleAdminDeleteImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminAnalytics",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/analytics",
		Summary:     "Upload analytics",
		Description: "Totals and per-day upload counts for the last 7 UTC days",
		Tags:        []string{tagAdmin},
		Security:    bearerSecurity,
	}, s.handleAdminAnalytics)
}

// AdminImagesResponse lists every image.
type AdminImagesResponse struct {
	Images []*domain.Image `json:"images"`
}

// AdminImagesOutput wraps the admin image list for Huma.
type AdminImagesOutput struct {
	Body AdminImagesResponse
}

// AdminImageInput identifies an image for an admin.
type AdminImageInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Image ID"`
}

// AnalyticsOutput wraps upload analytics for Huma.
type AnalyticsOutput struct {
	Body *domain.UploadAnalytics
}

func (s *Server) handleAdminListImages(ctx context.Context, input *AuthenticatedInput) (*AdminImagesOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	images, err := s.services.Image.ListAllForAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []*domain.Image{}
	}
	return &AdminImagesOutput{Body: AdminImagesResponse{Images: images}}, nil
}

func (s *Server) handleAdminDeleteImage(ctx context.Context, input *AdminImageInput) (*struct{}, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Image.DeleteImage(ctx, input.ID); err != nil {
		return nil, err
	}
	s.logger.Info("image deleted by admin", "image_id", input.ID, "admin_id", admin.ID)
	return nil, nil
}

func (s *Server) handleAdminAnalytics(ctx context.Context, input *AuthenticatedInput) (*AnalyticsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	analytics, err := s.services.Analytics.GetAdminAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	return &AnalyticsOutput{Body: analytics}, nil
}
