package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/promptgallery/gallery-server/internal/domain"
	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
	"github.com/promptgallery/gallery-server/internal/id"
	"github.com/promptgallery/gallery-server/internal/store"
	"github.com/promptgallery/gallery-server/internal/util"
)

// TagSearchLimit caps the number of tags returned by a search.
const TagSearchLimit = 20

// TagService turns free-text tag names into canonical tags and links them
// to images.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// ImageAttributes are the stored fields of a new image.
type ImageAttributes struct {
	UploadedBy string
	ImageURL   string
	Prompt     string
	AIModel    string
	FileSize   int64
	IsPublic   bool
}

// GetOrCreateTag returns the tag whose slug matches name, creating it inside
// tx if none exists. An existing tag is returned unchanged.
func (s *TagService) GetOrCreateTag(ctx context.Context, tx store.Tx, rawName string) (*domain.Tag, error) {
	name := strings.TrimSpace(rawName)
	if err := util.ValidateTagName(name); err != nil {
		return nil, invalidTagError(rawName, err)
	}
	slug := util.Slugify(name)

	existing, err := tx.GetTagBySlug(ctx, slug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("look up tag %q: %w", slug, err)
	}

	tag := &domain.Tag{
		ID:        id.New(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	err = tx.CreateTag(ctx, tag)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Another request created it after our lookup.
		return tx.GetTagBySlug(ctx, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("create tag %q: %w", slug, err)
	}
	return tag, nil
}

// CreateImageWithTags inserts an image and links it to the named tags in one
// transaction. Names are validated in order and the first invalid one aborts
// the whole call; names that share a slug are linked once.
func (s *TagService) CreateImageWithTags(ctx context.Context, attrs ImageAttributes, tagNames []string) (*domain.Image, error) {
	if len(tagNames) < domain.MinTagsPerImage || len(tagNames) > domain.MaxTagsPerImage {
		return nil, domainerrors.Validationf("between %d and %d tags are required, got %d",
			domain.MinTagsPerImage, domain.MaxTagsPerImage, len(tagNames))
	}

	img := &domain.Image{
		ID:         id.New(),
		UploadedBy: attrs.UploadedBy,
		ImageURL:   attrs.ImageURL,
		Prompt:     attrs.Prompt,
		AIModel:    attrs.AIModel,
		FileSize:   attrs.FileSize,
		IsPublic:   attrs.IsPublic,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateImage(ctx, img); err != nil {
			return fmt.Errorf("create image: %w", err)
		}

		tags := make([]*domain.Tag, 0, len(tagNames))
		seen := make(map[string]bool, len(tagNames))
		for _, raw := range tagNames {
			name := strings.TrimSpace(raw)
			if err := util.ValidateTagName(name); err != nil {
				return invalidTagError(raw, err)
			}
			slug := util.Slugify(name)
			if seen[slug] {
				continue
			}
			seen[slug] = true

			tag, err := s.GetOrCreateTag(ctx, tx, name)
			if err != nil {
				return err
			}
			if err := tx.LinkImageTag(ctx, img.ID, tag.ID); err != nil {
				return fmt.Errorf("link tag %q: %w", slug, err)
			}
			tags = append(tags, tag)
		}
		img.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("image created", "image_id", img.ID, "tags", len(img.Tags))
	}
	return img, nil
}

// SearchTags finds tags whose name contains query, most used first.
// A blank query matches nothing.
func (s *TagService) SearchTags(ctx context.Context, query string) ([]*domain.Tag, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []*domain.Tag{}, nil
	}
	return s.store.SearchTags(ctx, q, TagSearchLimit)
}

// ListTags returns every tag with its usage count, most used first.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTagsWithUsage(ctx)
}

// GetTagsForImage returns the tags attached to an image.
func (s *TagService) GetTagsForImage(ctx context.Context, imageID string) ([]*domain.Tag, error) {
	return s.store.GetTagsForImage(ctx, imageID)
}

func invalidTagError(raw string, err error) error {
	return domainerrors.Validationf("invalid tag %q: %s", strings.TrimSpace(raw), err).
		WithDetails(map[string]string{"tag": raw})
}
