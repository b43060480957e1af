package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

func insertImage(db *gorm.DB, img *domain.Image) error {
	img.CreatedAt = img.CreatedAt.UTC().Truncate(time.Microsecond)
	err := db.Create(&imageModel{
		ID:         img.ID,
		UploadedBy: img.UploadedBy,
		ImageURL:   img.ImageURL,
		Prompt:     img.Prompt,
		AIModel:    ptr(img.AIModel),
		FileSize:   img.FileSize,
		IsPublic:   img.IsPublic,
		CreatedAt:  img.CreatedAt,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrAlreadyExists.WithMessage("image already exists").WithCause(err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return store.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

// GetImage retrieves an image with its tags, regardless of visibility.
func (s *Store) GetImage(ctx context.Context, id string) (*domain.Image, error) {
	var m imageModel
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	img := m.toDomain()
	img.Tags, err = s.GetTagsForImage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load image tags: %w", err)
	}
	return img, nil
}

// ListPublicImages returns a page of public, confirmed images, newest first.
func (s *Store) ListPublicImages(ctx context.Context, params store.ImageListParams) (*store.PaginatedResult[*domain.Image], error) {
	params.Validate()

	cursor, err := store.DecodeImageCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&imageModel{}).
		Where("is_public = ?", true).
		Where("image_url NOT LIKE ?", domain.PendingURLPrefix+"%")
	if params.TagSlug != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM image_tags it JOIN tags t ON t.id = it.tag_id
			WHERE it.image_id = gallery_images.id AND t.slug = ?)`, params.TagSlug)
	}
	if cursor != nil {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []imageModel
	if err := q.Order("created_at DESC, id DESC").Limit(params.Limit + 1).Find(&rows).Error; err != nil {
		return nil, err
	}

	images := toDomainImages(rows)
	result := &store.PaginatedResult[*domain.Image]{}
	if len(images) > params.Limit {
		images = images[:params.Limit]
		result.HasMore = true
		last := images[len(images)-1]
		result.NextCursor = store.EncodeImageCursor(store.ImageCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	if err := s.attachTags(ctx, images); err != nil {
		return nil, err
	}
	result.Items = images
	return result, nil
}

// ListAllImagesWithTags returns every image, newest first.
func (s *Store) ListAllImagesWithTags(ctx context.Context) ([]*domain.Image, error) {
	var rows []imageModel
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	images := toDomainImages(rows)
	if err := s.attachTags(ctx, images); err != nil {
		return nil, err
	}
	return images, nil
}

// UpdateImageURL replaces an image's URL.
func (s *Store) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	res := s.db.WithContext(ctx).Model(&imageModel{}).Where("id = ?", id).Update("image_url", imageURL)
	if res.Error != nil {
		return fmt.Errorf("update image url: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrImageNotFound
	}
	return nil
}

// DeleteImage removes an image. Tag links, likes and stats cascade.
func (s *Store) DeleteImage(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&imageModel{})
	if res.Error != nil {
		return fmt.Errorf("delete image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrImageNotFound
	}
	return nil
}

// DeletePendingImagesBefore removes unconfirmed uploads created before the cutoff.
func (s *Store) DeletePendingImagesBefore(ctx context.Context, before time.Time) (int, error) {
	res := s.db.WithContext(ctx).
		Where("image_url LIKE ? AND created_at < ?", domain.PendingURLPrefix+"%", before.UTC()).
		Delete(&imageModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete pending images: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *Store) attachTags(ctx context.Context, images []*domain.Image) error {
	ids := make([]string, len(images))
	for i, img := range images {
		ids[i] = img.ID
	}
	byImage, err := s.tagsForImages(ctx, ids)
	if err != nil {
		return fmt.Errorf("load image tags: %w", err)
	}
	for _, img := range images {
		img.Tags = byImage[img.ID]
		if img.Tags == nil {
			img.Tags = []*domain.Tag{}
		}
	}
	return nil
}

func toDomainImages(rows []imageModel) []*domain.Image {
	images := make([]*domain.Image, 0, len(rows))
	for i := range rows {
		images = append(images, rows[i].toDomain())
	}
	return images
}
