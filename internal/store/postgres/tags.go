package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

const tagUsageQuery = `
	SELECT t.id, t.name, t.slug, t.created_at, COUNT(it.tag_id) AS usage_count
	FROM tags t
	LEFT JOIN image_tags it ON it.tag_id = t.id`

func getTagBySlug(db *gorm.DB, slug string) (*domain.Tag, error) {
	var m tagModel
	err := db.Where("slug = ?", slug).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// insertTag reports a name or slug collision as store.ErrAlreadyExists.
// ON CONFLICT DO NOTHING keeps an enclosing transaction usable.
func insertTag(db *gorm.DB, t *domain.Tag) error {
	t.CreatedAt = t.CreatedAt.UTC().Truncate(time.Microsecond)
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tagModel{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("insert tag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrAlreadyExists.WithMessage("tag already exists")
	}
	return nil
}

// GetTagBySlug retrieves a tag by its slug.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return getTagBySlug(s.db.WithContext(ctx), slug)
}

// ListTagsWithUsage returns every tag with its image count, most used first.
func (s *Store) ListTagsWithUsage(ctx context.Context) ([]*domain.Tag, error) {
	var rows []tagModel
	err := s.db.WithContext(ctx).Raw(tagUsageQuery + `
		GROUP BY t.id
		ORDER BY usage_count DESC, t.name ASC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainTags(rows), nil
}

// SearchTags returns up to limit tags whose name contains query,
// case-insensitively, most used first.
func (s *Store) SearchTags(ctx context.Context, query string, limit int) ([]*domain.Tag, error) {
	var rows []tagModel
	err := s.db.WithContext(ctx).Raw(tagUsageQuery+`
		WHERE t.name ILIKE ? ESCAPE '\'
		GROUP BY t.id
		ORDER BY usage_count DESC, t.name ASC
		LIMIT ?`, "%"+escapeLike(query)+"%", limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainTags(rows), nil
}

// GetTagsForImage returns the tags attached to an image, ordered by name.
func (s *Store) GetTagsForImage(ctx context.Context, imageID string) ([]*domain.Tag, error) {
	var rows []tagModel
	err := s.db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.name, tags.slug, tags.created_at").
		Joins("JOIN image_tags ON image_tags.tag_id = tags.id").
		Where("image_tags.image_id = ?", imageID).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainTags(rows), nil
}

type imageTagRow struct {
	ImageID string
	tagModel
}

func (s *Store) tagsForImages(ctx context.Context, imageIDs []string) (map[string][]*domain.Tag, error) {
	out := make(map[string][]*domain.Tag, len(imageIDs))
	if len(imageIDs) == 0 {
		return out, nil
	}

	var rows []imageTagRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT it.image_id, t.id, t.name, t.slug, t.created_at
		FROM image_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.image_id IN ?
		ORDER BY t.name ASC`, imageIDs).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ImageID] = append(out[rows[i].ImageID], rows[i].toDomain())
	}
	return out, nil
}

func toDomainTags(rows []tagModel) []*domain.Tag {
	tags := make([]*domain.Tag, 0, len(rows))
	for i := range rows {
		tags = append(tags, rows[i].toDomain())
	}
	return tags
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
