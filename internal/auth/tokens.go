package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/id"
)

const (
	tokenIssuer   = "gallery-server"
	tokenAudience = "gallery-client"

	keyBytesSize = 32
)

// TokenService issues and verifies PASETO v4.local access tokens.
type TokenService struct {
	key            paseto.V4SymmetricKey
	accessDuration time.Duration
}

// NewTokenService creates a token service from a hex-encoded 32-byte key.
func NewTokenService(keyHex string, accessDuration time.Duration) (*TokenService, error) {
	raw, err := decodeKey(keyHex)
	if err != nil {
		return nil, err
	}
	key, err := paseto.V4SymmetricKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("create PASETO key: %w", err)
	}
	return &TokenService{key: key, accessDuration: accessDuration}, nil
}

// GenerateAccessToken issues an encrypted access token for the user.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessDuration)

	tokenID, err := id.Generate("tok")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token ID: %w", err)
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expiresAt)
	token.SetJti(tokenID)

	//nolint:errcheck // Set only fails for values that cannot be marshalled
	_ = token.Set("user_id", user.ID)
	//nolint:errcheck // as above
	_ = token.Set("email", user.Email)
	//nolint:errcheck // as above
	_ = token.Set("role", string(user.Role))

	return token.V4Encrypt(s.key, nil), expiresAt, nil
}

// VerifyAccessToken decrypts and validates a token, returning its claims.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	return &claims, nil
}
