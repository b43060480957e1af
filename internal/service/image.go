package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/promptgallery/gallery-server/internal/domain"
	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
	"github.com/promptgallery/gallery-server/internal/imagehost"
	"github.com/promptgallery/gallery-server/internal/store"
	"github.com/promptgallery/gallery-server/internal/validation"
)

// DefaultMaxUploadSize is the largest image accepted when none is configured.
const DefaultMaxUploadSize int64 = 5 * 1024 * 1024

// UploadConfig bounds admin uploads.
type UploadConfig struct {
	MaxFileSize int64
}

// ImageService serves the gallery and manages the image lifecycle:
// pending record, confirmed upload, deletion.
type ImageService struct {
	store     store.Store
	host      imagehost.Host
	tags      *TagService
	validator *validation.Validator
	cfg       UploadConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewImageService creates a new image service.
func NewImageService(
	store store.Store,
	host imagehost.Host,
	tags *TagService,
	validator *validation.Validator,
	cfg UploadConfig,
	logger *slog.Logger,
) *ImageService {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxUploadSize
	}
	return &ImageService{
		store:     store,
		host:      host,
		tags:      tags,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// ListPublicImages returns a page of the public gallery.
func (s *ImageService) ListPublicImages(ctx context.Context, params store.ImageListParams) (*store.PaginatedResult[*domain.Image], error) {
	page, err := s.store.ListPublicImages(ctx, params)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetImage returns a public, confirmed image. Private and pending images are
// reported as missing.
func (s *ImageService) GetImage(ctx context.Context, imageID string) (*domain.Image, error) {
	img, err := s.store.GetImage(ctx, imageID)
	if err != nil {
		return nil, mapNotFound(err, "image not found")
	}
	if !img.IsPublic || img.IsPending() {
		return nil, domainerrors.NotFound("image not found")
	}
	return img, nil
}

// ListAllForAdmin returns every image with its tags, newest first.
func (s *ImageService) ListAllForAdmin(ctx context.Context) ([]*domain.Image, error) {
	return s.store.ListAllImagesWithTags(ctx)
}

// DeleteImage removes the image record, then its stored object. The record
// is gone even when the object delete fails; that failure is returned as an
// external-service error.
func (s *ImageService) DeleteImage(ctx context.Context, imageID string) error {
	img, err := s.store.GetImage(ctx, imageID)
	if err != nil {
		return mapNotFound(err, "image not found")
	}

	if err := s.store.DeleteImage(ctx, imageID); err != nil {
		return mapNotFound(err, "image not found")
	}

	key, ok := s.host.KeyFromURL(img.ImageURL)
	if !ok {
		s.logger.Warn("no storage key for image, skipping object delete",
			"image_id", imageID, "image_url", img.ImageURL)
		return nil
	}

	if err := s.host.Delete(ctx, key); err != nil {
		s.logger.Error("image object delete failed", "image_id", imageID, "key", key, "error", err)
		return domainerrors.External("image deleted but storage cleanup failed", err)
	}

	s.logger.Info("image deleted", "image_id", imageID, "key", key)
	return nil
}

// ReapPendingUploads deletes records whose upload was never confirmed within olderThan.
func (s *ImageService) ReapPendingUploads(ctx context.Context, olderThan time.Duration) (int, error) {
	n, err := s.store.DeletePendingImagesBefore(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("reap pending uploads: %w", err)
	}
	return n, nil
}
