package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptgallery/gallery-server/internal/domain"
	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
)

// authenticateRequest validates the Authorization header and returns the user.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	return s.services.Auth.VerifyAccessToken(ctx, token)
}

// authenticateAndRequireAdmin validates the token and requires admin role.
func (s *Server) authenticateAndRequireAdmin(ctx context.Context, authHeader string) (*domain.User, error) {
	user, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}
	return user, nil
}
