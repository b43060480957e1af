package domain

import (
	"strconv"
	"strings"
	"time"
)

// PendingURLPrefix marks an image whose upload has not been confirmed yet.
const PendingURLPrefix = "pending-"

// Image is an AI-generated picture in the gallery.
type Image struct {
	ID         string    `json:"id"`
	UploadedBy string    `json:"uploadedBy"`
	ImageURL   string    `json:"imageUrl"`
	Prompt     string    `json:"prompt"`
	AIModel    string    `json:"aiModel,omitempty"`
	FileSize   int64     `json:"fileSize"`
	IsPublic   bool      `json:"isPublic"`
	CreatedAt  time.Time `json:"createdAt"`

	// Tags is populated by queries that join tags; nil otherwise.
	Tags []*Tag `json:"tags,omitempty"`
}

// IsPending reports whether the image still carries its placeholder URL.
func (i *Image) IsPending() bool {
	return strings.HasPrefix(i.ImageURL, PendingURLPrefix)
}

// TagNames returns the names of the loaded tags in order.
func (i *Image) TagNames() []string {
	names := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		names = append(names, t.Name)
	}
	return names
}

// PendingURL builds the placeholder URL stored until an upload is confirmed.
func PendingURL(at time.Time) string {
	return PendingURLPrefix + strconv.FormatInt(at.UnixMilli(), 10)
}

// UploadKeyPrefix returns the prefix every object key uploaded for this
// pending image starts with. It reports false once the upload is confirmed.
func (i *Image) UploadKeyPrefix() (string, bool) {
	ms, ok := strings.CutPrefix(i.ImageURL, PendingURLPrefix)
	if !ok || ms == "" {
		return "", false
	}
	return ms + "-", true
}
