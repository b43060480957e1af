package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptgallery/gallery-server/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Tags:        []string{tagUsers},
		Security:    bearerSecurity,
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyLikes",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/likes",
		Summary:     "List liked posts",
		Description: "Returns the IDs of posts the current user likes, newest first",
		Tags:        []string{tagUsers},
		Security:    bearerSecurity,
	}, s.handleListMyLikes)
}

// AuthenticatedInput carries only the bearer token.
type AuthenticatedInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body *domain.User
}

// LikedPostsResponse lists liked post IDs.
type LikedPostsResponse struct {
	PostIDs []string `json:"postIds" doc:"Liked post IDs, most recent first"`
}

// LikedPostsOutput wraps the liked posts response for Huma.
type LikedPostsOutput struct {
	Body LikedPostsResponse
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthenticatedInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleListMyLikes(ctx context.Context, input *AuthenticatedInput) (*LikedPostsOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ids, err := s.services.Engagement.ListLikedPostIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return &LikedPostsOutput{Body: LikedPostsResponse{PostIDs: ids}}, nil
}
