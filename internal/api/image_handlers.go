package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listImages",
		Method:      http.MethodGet,
		Path:        "/api/v1/images",
		Summary:     "List gallery images",
		Description: "Returns public images newest first, with cursor pagination and an optional tag filter",
		Tags:        []string{tagImages},
	}, s.handleListImages)

	huma.Register(s.api, huma.Operation{
		OperationID: "getImage",
		Method:      http.MethodGet,
		Path:        "/api/v1/images/{id}",
		Summary:     "Get image",
		Description: "Returns a public image with its tags",
		Tags:        []string{tagImages},
	}, s.handleGetImage)
}

// ListImagesInput contains pagination and filter parameters.
type ListImagesInput struct {
	Cursor string `query:"cursor" doc:"Opaque cursor from a previous page"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Items per page (default 24)"`
	Tag    string `query:"tag" maxLength:"64" doc:"Only images carrying this tag slug"`
}

// ImagePageOutput wraps a page of images for Huma.
type ImagePageOutput struct {
	Body *store.PaginatedResult[*domain.Image]
}

// ImageIDInput identifies an image by path.
type ImageIDInput struct {
	ID string `path:"id" doc:"Image ID"`
}

// ImageOutput wraps an image for Huma.
type ImageOutput struct {
	Body *domain.Image
}

func (s *Server) handleListImages(ctx context.Context, input *ListImagesInput) (*ImagePageOutput, error) {
	page, err := s.services.Image.ListPublicImages(ctx, store.ImageListParams{
		PaginationParams: store.PaginationParams{Limit: input.Limit, Cursor: input.Cursor},
		TagSlug:          input.Tag,
	})
	if err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []*domain.Image{}
	}
	return &ImagePageOutput{Body: page}, nil
}

func (s *Server) handleGetImage(ctx context.Context, input *ImageIDInput) (*ImageOutput, error) {
	img, err := s.services.Image.GetImage(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ImageOutput{Body: img}, nil
}
