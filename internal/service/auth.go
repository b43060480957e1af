package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/promptgallery/gallery-server/internal/auth"
	"github.com/promptgallery/gallery-server/internal/domain"
	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
	"github.com/promptgallery/gallery-server/internal/id"
	"github.com/promptgallery/gallery-server/internal/store"
	"github.com/promptgallery/gallery-server/internal/validation"
)

// AuthService handles accounts and access tokens.
type AuthService struct {
	store      store.Store
	tokens     *auth.TokenService
	validator  *validation.Validator
	adminEmail string
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service. Accounts registered
// or logging in with adminEmail are given the admin role.
func NewAuthService(
	store store.Store,
	tokens *auth.TokenService,
	validator *validation.Validator,
	adminEmail string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:      store,
		tokens:     tokens,
		validator:  validator,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		logger:     logger,
	}
}

// RegisterRequest contains new account details.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains an access token and the signed-in user.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := domain.RoleUser
	if s.isAdminEmail(req.Email) {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		ID:           id.New(),
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

// Login verifies credentials and returns a fresh access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	if s.isAdminEmail(user.Email) && !user.IsAdmin() {
		if err := s.store.UpdateUserRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		user.Role = domain.RoleAdmin
		s.logger.Info("user promoted to admin", "user_id", user.ID)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.issue(user)
}

// VerifyAccessToken validates a token and loads its user. The stored role
// wins over the role in the token.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetCurrentUser returns the user with the given ID.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, "user not found")
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *AuthService) isAdminEmail(email string) bool {
	return s.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), s.adminEmail)
}
