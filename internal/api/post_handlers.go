package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptgallery/gallery-server/internal/domain"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPostStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{postId}/stats",
		Summary:     "Get post stats",
		Description: "Returns like, download and prompt copy counts; zeros when nothing was recorded",
		Tags:        []string{tagEngagement},
	}, s.handleGetPostStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "likePost",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{postId}/like",
		Summary:     "Like post",
		Description: "Idempotent; liking twice counts once",
		Tags:        []string{tagEngagement},
		Security:    bearerSecurity,
	}, s.handleLikePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikePost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{postId}/like",
		Summary:     "Unlike post",
		Description: "Idempotent; the like count never drops below zero",
		Tags:        []string{tagEngagement},
		Security:    bearerSecurity,
	}, s.handleUnlikePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordDownload",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{postId}/download",
		Summary:     "Record download",
		Tags:        []string{tagEngagement},
		Middlewares: s.rateLimited(s.publicLimiter),
	}, s.handleRecordDownload)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordPromptCopy",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{postId}/prompt-copy",
		Summary:     "Record prompt copy",
		Tags:        []string{tagEngagement},
		Middlewares: s.rateLimited(s.publicLimiter),
	}, s.handleRecordPromptCopy)
}

// PostIDInput identifies a post by path.
type PostIDInput struct {
	PostID string `path:"postId" doc:"Post (image) ID"`
}

// AuthenticatedPostInput identifies a post for a signed-in user.
type AuthenticatedPostInput struct {
	Authorization string `header:"Authorization"`
	PostID        string `path:"postId" doc:"Post (image) ID"`
}

// PostStatsOutput wraps post stats for Huma.
type PostStatsOutput struct {
	Body *domain.PostStats
}

// LikeResponse reports the outcome of a like toggle.
type LikeResponse struct {
	Success bool `json:"success" doc:"Always true when the request was applied"`
	Liked   bool `json:"liked" doc:"Whether the user now likes the post"`
	Changed bool `json:"changed" doc:"False when the post was already in the requested state"`
}

// LikeOutput wraps the like response for Huma.
type LikeOutput struct {
	Body LikeResponse
}

// SuccessResponse is a bare acknowledgement.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// SuccessOutput wraps an acknowledgement for Huma.
type SuccessOutput struct {
	Body SuccessResponse
}

func (s *Server) handleGetPostStats(ctx context.Context, input *PostIDInput) (*PostStatsOutput, error) {
	stats, err := s.services.Engagement.GetStats(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	return &PostStatsOutput{Body: stats}, nil
}

func (s *Server) handleLikePost(ctx context.Context, input *AuthenticatedPostInput) (*LikeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	changed, err := s.services.Engagement.Like(ctx, user.ID, input.PostID)
	if err != nil {
		return nil, err
	}
	return &LikeOutput{Body: LikeResponse{Success: true, Liked: true, Changed: changed}}, nil
}

func (s *Server) handleUnlikePost(ctx context.Context, input *AuthenticatedPostInput) (*LikeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	changed, err := s.services.Engagement.Unlike(ctx, user.ID, input.PostID)
	if err != nil {
		return nil, err
	}
	return &LikeOutput{Body: LikeResponse{Success: true, Liked: false, Changed: changed}}, nil
}

func (s *Server) handleRecordDownload(ctx context.Context, input *PostIDInput) (*SuccessOutput, error) {
	if err := s.services.Engagement.RecordDownload(ctx, input.PostID); err != nil {
		return nil, err
	}
	return &SuccessOutput{Body: SuccessResponse{Success: true}}, nil
}

func (s *Server) handleRecordPromptCopy(ctx context.Context, input *PostIDInput) (*SuccessOutput, error) {
	if err := s.services.Engagement.RecordPromptCopy(ctx, input.PostID); err != nil {
		return nil, err
	}
	return &SuccessOutput{Body: SuccessResponse{Success: true}}, nil
}
