package store

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const (
	defaultPageLimit = 24
	maxPageLimit     = 100
)

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Limit  int    // Items per page (defaults to 24, maximum 100)
	Cursor string // Opaque cursor for the next page (empty for first page)
}

// ImageListParams filters the public gallery listing.
type ImageListParams struct {
	PaginationParams
	TagSlug string // Only images carrying this tag (optional)
}

// PaginatedResult contains paginated data and metadata.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"` // Empty if no more pages
	HasMore    bool   `json:"hasMore"`
}

// Validate clamps the limit into range.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
}

// ImageCursor is the keyset position of the last image on a page.
// Images are listed newest first, ties broken by ID descending.
type ImageCursor struct {
	CreatedAt time.Time
	ID        string
}

// EncodeImageCursor creates an opaque cursor from a keyset position.
func EncodeImageCursor(c ImageCursor) string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeImageCursor decodes a cursor. An empty cursor yields nil.
func DecodeImageCursor(cursor string) (*ImageCursor, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	ts, id, ok := strings.Cut(string(decoded), "|")
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid cursor: missing id")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	return &ImageCursor{CreatedAt: createdAt, ID: id}, nil
}
