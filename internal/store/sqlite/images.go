package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

// imageColumns must match the scan order in scanImage.
const imageColumns = `id, uploaded_by, image_url, prompt, ai_model, file_size, is_public, created_at`

func scanImage(scanner interface{ Scan(dest ...any) error }) (*domain.Image, error) {
	var (
		img       domain.Image
		aiModel   sql.NullString
		isPublic  int
		createdAt string
	)

	err := scanner.Scan(
		&img.ID,
		&img.UploadedBy,
		&img.ImageURL,
		&img.Prompt,
		&aiModel,
		&img.FileSize,
		&isPublic,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	img.AIModel = aiModel.String
	img.IsPublic = isPublic != 0
	img.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func insertImage(ctx context.Context, q querier, img *domain.Image) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO gallery_images (`+imageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID,
		img.UploadedBy,
		img.ImageURL,
		img.Prompt,
		nullString(img.AIModel),
		img.FileSize,
		boolToInt(img.IsPublic),
		formatTime(img.CreatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("image already exists").WithCause(err)
	}
	if isForeignKeyViolation(err) {
		return store.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

// GetImage retrieves an image with its tags, regardless of visibility.
func (s *Store) GetImage(ctx context.Context, id string) (*domain.Image, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+imageColumns+` FROM gallery_images WHERE id = ?`, id)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	img.Tags, err = s.GetTagsForImage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load image tags: %w", err)
	}
	return img, nil
}

// ListPublicImages returns a page of public, confirmed images, newest first.
// Pages are keyed on (created_at, id) so concurrent inserts never shift them.
func (s *Store) ListPublicImages(ctx context.Context, params store.ImageListParams) (*store.PaginatedResult[*domain.Image], error) {
	params.Validate()

	cursor, err := store.DecodeImageCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	var (
		where = []string{"i.is_public = 1", "i.image_url NOT LIKE '" + domain.PendingURLPrefix + "%'"}
		args  []any
	)
	if params.TagSlug != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM image_tags it JOIN tags t ON t.id = it.tag_id
			WHERE it.image_id = i.id AND t.slug = ?)`)
		args = append(args, params.TagSlug)
	}
	if cursor != nil {
		ts := formatTime(cursor.CreatedAt)
		where = append(where, "(i.created_at < ? OR (i.created_at = ? AND i.id < ?))")
		args = append(args, ts, ts, cursor.ID)
	}
	args = append(args, params.Limit+1)

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.uploaded_by, i.image_url, i.prompt, i.ai_model, i.file_size, i.is_public, i.created_at
		FROM gallery_images i
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	images, err := collectImages(rows)
	if err != nil {
		return nil, err
	}

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

// ListAllImagesWithTags returns every image, including private and pending
// ones, newest first.
func (s *Store) ListAllImagesWithTags(ctx context.Context) ([]*domain.Image, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM gallery_images ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	images, err := collectImages(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, images); err != nil {
		return nil, err
	}
	return images, nil
}

// UpdateImageURL replaces an image's URL, typically to confirm an upload.
func (s *Store) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE gallery_images SET image_url = ? WHERE id = ?`, imageURL, id)
	if err != nil {
		return fmt.Errorf("update image url: %w", err)
	}
	return requireRow(res, store.ErrImageNotFound)
}

// DeleteImage removes an image. Tag links, likes and stats cascade.
func (s *Store) DeleteImage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return requireRow(res, store.ErrImageNotFound)
}

// DeletePendingImagesBefore removes records whose upload was never confirmed
// and that were created before the cutoff.
func (s *Store) DeletePendingImagesBefore(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM gallery_images
		WHERE image_url LIKE '`+domain.PendingURLPrefix+`%' AND created_at < ?`,
		formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("delete pending images: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
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

func collectImages(rows *sql.Rows) ([]*domain.Image, error) {
	defer rows.Close()

	images := []*domain.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
