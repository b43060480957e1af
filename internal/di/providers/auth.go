package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/promptgallery/gallery-server/internal/auth"
	"github.com/promptgallery/gallery-server/internal/config"
)

// AuthKey is the hex-encoded token encryption key.
type AuthKey string

// ProvideAuthKey loads or generates the authentication key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.App.DataDir)
	if err != nil {
		return "", err
	}

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.AccessTokenDuration)
}
