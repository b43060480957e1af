package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptgallery/gallery-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register",
		Description:   "Creates an account and returns an access token",
		Tags:          []string{tagAuth},
		DefaultStatus: http.StatusCreated,
		Middlewares:   s.rateLimited(s.authLimiter),
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Description: "Exchanges email and password for an access token",
		Tags:        []string{tagAuth},
		Middlewares: s.rateLimited(s.authLimiter),
	}, s.handleLogin)
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body service.RegisterRequest
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         *service.AuthResponse
}

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{CacheControl: CacheNoStore, Body: resp}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{CacheControl: CacheNoStore, Body: resp}, nil
}
