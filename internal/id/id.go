// Package id generates identifiers.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// New returns a random UUID for persisted entities (users, images, tags).
func New() string {
	return uuid.NewString()
}

// Generate creates a prefixed NanoID, e.g. "tok-V1StGXR8_Z5jdHi6B-myT".
// Used for short-lived identifiers such as token IDs.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}
