package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptgallery/gallery-server/internal/domain"
	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
	"github.com/promptgallery/gallery-server/internal/validation"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, RegisterRequest{Email: "ann@example.com", Password: "password123", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, reg.User.Role)
	assert.Equal(t, "Bearer", reg.TokenType)
	assert.NotEmpty(t, reg.AccessToken)

	login, err := env.auth.Login(ctx, LoginRequest{Email: "ANN@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	user, err := env.auth.VerifyAccessToken(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = env.auth.Register(ctx, RegisterRequest{Email: "Ann@Example.com", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(context.Background(), RegisterRequest{Email: "nope", Password: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, RegisterRequest{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "ann@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_AdminEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, RegisterRequest{Email: "Admin@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, reg.User.IsAdmin())

	// An account registered before ADMIN_EMAIL pointed at it is promoted on login.
	late, err := env.auth.Register(ctx, RegisterRequest{Email: "late@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.False(t, late.User.IsAdmin())

	promoting := NewAuthService(env.store, env.tokens, validation.New(), "late@example.com", env.auth.logger)
	login, err := promoting.Login(ctx, LoginRequest{Email: "late@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, login.User.IsAdmin())

	stored, err := env.store.GetUser(ctx, late.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestAuthService_VerifyAccessTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.VerifyAccessToken(context.Background(), "v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
