package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptgallery/gallery-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns every tag with its usage count, most used first",
		Tags:        []string{tagTags},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/search",
		Summary:     "Search tags",
		Description: "Case-insensitive substring match on tag names, at most 20 results",
		Tags:        []string{tagTags},
	}, s.handleSearchTags)
}

// SearchTagsInput contains the search query.
type SearchTagsInput struct {
	Query string `query:"q" maxLength:"100" doc:"Substring to match; blank returns no tags"`
}

// TagsResponse lists tags.
type TagsResponse struct {
	Tags []*domain.Tag `json:"tags" doc:"Tags with usage counts"`
}

// TagsOutput wraps a tag list for Huma.
type TagsOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         TagsResponse
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagsOutput, error) {
	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return newTagsOutput(tags), nil
}

func (s *Server) handleSearchTags(ctx context.Context, input *SearchTagsInput) (*TagsOutput, error) {
	tags, err := s.services.Tag.SearchTags(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	return newTagsOutput(tags), nil
}

func newTagsOutput(tags []*domain.Tag) *TagsOutput {
	if tags == nil {
		tags = []*domain.Tag{}
	}
	return &TagsOutput{CacheControl: CachePublicShort, Body: TagsResponse{Tags: tags}}
}
