// Package util provides common utility functions.
package util

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTagNameLength is the longest tag name accepted, in characters.
const MaxTagNameLength = 30

var (
	// Matches anything that may not appear in a slug.
	slugStripRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	// Matches runs of whitespace.
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Allowed characters for a tag name.
	tagNameRe = regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)
)

// Tag name validation errors.
var (
	ErrTagNameEmpty             = errors.New("tag name cannot be empty")
	ErrTagNameTooLong           = errors.New("tag name must be 30 characters or less")
	ErrTagNameInvalidCharacters = errors.New("tag name can only contain letters, numbers, spaces, and hyphens")
)

// Slugify converts a tag name to its canonical slug.
//
//	"Nature"         → "nature"
//	"  Night Sky "   → "night-sky"
//	"Sci-Fi  Art!"   → "sci-fi-art"
//
// Slugify(Slugify(x)) == Slugify(x) for every input.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = slugStripRe.ReplaceAllString(s, "")
	return whitespaceRe.ReplaceAllString(s, "-")
}

// ValidateTagName checks a user-supplied tag name after trimming.
// Returns nil for a valid name, or one of the ErrTagName* sentinels.
func ValidateTagName(raw string) error {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return ErrTagNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxTagNameLength {
		return ErrTagNameTooLong
	}
	if !tagNameRe.MatchString(trimmed) {
		return ErrTagNameInvalidCharacters
	}
	return nil
}

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with an underscore.
func SanitizeFileName(name string) string {
	return fileNameRe.ReplaceAllString(name, "_")
}

var fileNameRe = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
