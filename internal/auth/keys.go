// Package auth provides password hashing and access tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// KeyFileName is the file under the data directory holding the token key.
const KeyFileName = "auth.key"

// LoadOrGenerateKey returns the hex-encoded PASETO v4 symmetric key stored in
// <dataDir>/auth.key, creating the file with a fresh key when it is missing.
func LoadOrGenerateKey(dataDir string) (string, error) {
	keyPath := filepath.Join(dataDir, KeyFileName)

	//#nosec G304 -- path is built from configured data dir
	raw, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		keyHex := strings.TrimSpace(string(raw))
		if _, err := decodeKey(keyHex); err != nil {
			return "", fmt.Errorf("%s: %w", keyPath, err)
		}
		return keyHex, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate auth key: %w", err)
	}
	keyHex := hex.EncodeToString(key)

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(keyHex), 0o600); err != nil {
		return "", fmt.Errorf("save auth key: %w", err)
	}
	return keyHex, nil
}

func decodeKey(keyHex string) ([]byte, error) {
	if len(keyHex) != keyBytesSize*2 {
		return nil, fmt.Errorf("auth key must be %d hex characters, got %d", keyBytesSize*2, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("auth key is not valid hex: %w", err)
	}
	return key, nil
}
