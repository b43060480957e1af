package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptgallery/gallery-server/internal/service"
)

func (s *Server) registerUploadRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "generateUploadURL",
		Method:      http.MethodPost,
		Path:        "/api/v1/upload/generate-url",
		Summary:     "Generate upload URL",
		Description: "Creates a pending image record with its tags and returns a presigned upload URL",
		Tags:        []string{tagUploads},
		Security:    bearerSecurity,
	}, s.handleGenerateUploadURL)

	huma.Register(s.api, huma.Operation{
		OperationID: "confirmUpload",
		Method:      http.MethodPost,
		Path:        "/api/v1/upload/confirm",
		Summary:     "Confirm upload",
		Description: "Replaces the pending placeholder with the final image URL",
		Tags:        []string{tagUploads},
		Security:    bearerSecurity,
	}, s.handleConfirmUpload)
}

// GenerateUploadURLInput wraps the upload request for Huma.
type GenerateUploadURLInput struct {
	Authorization string `header:"Authorization"`
	Body          service.GenerateUploadURLRequest
}

// GenerateUploadURLOutput wraps the upload response for Huma.
type GenerateUploadURLOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         *service.GenerateUploadURLResponse
}

// ConfirmUploadInput wraps the confirm request for Huma.
type ConfirmUploadInput struct {
	Authorization string `header:"Authorization"`
	Body          service.ConfirmUploadRequest
}

// ConfirmUploadOutput wraps the confirm response for Huma.
type ConfirmUploadOutput struct {
	Body *service.ConfirmUploadResponse
}

func (s *Server) handleGenerateUploadURL(ctx context.Context, input *GenerateUploadURLInput) (*GenerateUploadURLOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Image.GenerateUploadURL(ctx, admin.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &GenerateUploadURLOutput{CacheControl: CacheNoStore, Body: resp}, nil
}

func (s *Server) handleConfirmUpload(ctx context.Context, input *ConfirmUploadInput) (*ConfirmUploadOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	resp, err := s.services.Image.ConfirmUpload(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &ConfirmUploadOutput{Body: resp}, nil
}
