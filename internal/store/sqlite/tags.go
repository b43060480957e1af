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

// tagColumns must match the scan order in scanTag.
const tagColumns = `id, name, slug, created_at`

// scanTag scans a tag row. UsageCount is left as 0.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
	)
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &createdAt); err != nil {
		return nil, err
	}

	var err error
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// scanTagWithUsage scans tagColumns followed by a usage count.
func scanTagWithUsage(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
	)
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &createdAt, &t.UsageCount); err != nil {
		return nil, err
	}

	var err error
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func getTagBySlug(ctx context.Context, q querier, slug string) (*domain.Tag, error) {
	row := q.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE slug = ?`, slug)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTagNotFound
	}
	return t, err
}

// insertTag inserts a tag, reporting a name or slug collision as
// store.ErrAlreadyExists without aborting the surrounding transaction.
func insertTag(ctx context.Context, q querier, t *domain.Tag) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO tags (id, name, slug, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		t.ID,
		t.Name,
		t.Slug,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists.WithMessage("tag already exists")
	}
	return nil
}

func linkImageTag(ctx context.Context, q querier, imageID, tagID string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO image_tags (image_id, tag_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(image_id, tag_id) DO NOTHING`,
		imageID,
		tagID,
		formatTime(time.Now()),
	)
	if isForeignKeyViolation(err) {
		return store.ErrNotFound.WithMessage("image or tag not found")
	}
	if err != nil {
		return fmt.Errorf("link image tag: %w", err)
	}
	return nil
}

// GetTagBySlug retrieves a tag by its slug.
// Returns store.ErrTagNotFound if the tag does not exist.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return getTagBySlug(ctx, s.db, slug)
}

// ListTagsWithUsage returns every tag with the number of images it is
// attached to, most used first.
func (s *Store) ListTagsWithUsage(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.created_at, COUNT(it.tag_id) AS usage_count
		FROM tags t
		LEFT JOIN image_tags it ON it.tag_id = t.id
		GROUP BY t.id
		ORDER BY usage_count DESC, t.name ASC`)
	if err != nil {
		return nil, err
	}
	return collectTags(rows, scanTagWithUsage)
}

// SearchTags returns up to limit tags whose name contains query,
// case-insensitively, most used first.
func (s *Store) SearchTags(ctx context.Context, query string, limit int) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.created_at, COUNT(it.tag_id) AS usage_count
		FROM tags t
		LEFT JOIN image_tags it ON it.tag_id = t.id
		WHERE lower(t.name) LIKE ? ESCAPE '\'
		GROUP BY t.id
		ORDER BY usage_count DESC, t.name ASC
		LIMIT ?`,
		"%"+escapeLike(strings.ToLower(query))+"%",
		limit,
	)
	if err != nil {
		return nil, err
	}
	return collectTags(rows, scanTagWithUsage)
}

// GetTagsForImage returns the tags attached to an image, ordered by name.
func (s *Store) GetTagsForImage(ctx context.Context, imageID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.created_at
		FROM image_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.image_id = ?
		ORDER BY t.name ASC`, imageID)
	if err != nil {
		return nil, err
	}
	return collectTags(rows, scanTag)
}

// tagsForImages loads tags for a set of images in one query, keyed by image ID.
func (s *Store) tagsForImages(ctx context.Context, imageIDs []string) (map[string][]*domain.Tag, error) {
	out := make(map[string][]*domain.Tag, len(imageIDs))
	if len(imageIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(imageIDs))
	for i, id := range imageIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT it.image_id, t.id, t.name, t.slug, t.created_at
		FROM image_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.image_id IN (`+placeholders(len(imageIDs))+`)
		ORDER BY t.name ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var imageID string
		t, err := scanTag(prefixScanner{rows: rows, first: &imageID})
		if err != nil {
			return nil, err
		}
		out[imageID] = append(out[imageID], t)
	}
	return out, rows.Err()
}

// prefixScanner scans one leading column into first before handing the
// rest to a row scanner.
type prefixScanner struct {
	rows  *sql.Rows
	first any
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.rows.Scan(append([]any{p.first}, dest...)...)
}

func collectTags(rows *sql.Rows, scan func(interface{ Scan(dest ...any) error }) (*domain.Tag, error)) ([]*domain.Tag, error) {
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
