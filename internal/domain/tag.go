package domain

import "time"

// Tag is a canonical, shared label for gallery images.
// Slug is derived from Name when the tag is first created and never changes;
// two names that normalize to the same slug refer to the same tag.
type Tag struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	UsageCount int       `json:"usageCount"` // Number of images linked to this tag (computed, not stored)
	CreatedAt  time.Time `json:"createdAt"`
}

// MaxTagsPerImage is the most tags a single upload may carry.
const MaxTagsPerImage = 10

// MinTagsPerImage is the fewest tags a single upload may carry.
const MinTagsPerImage = 1
