package sqlite

import (
	"context"
	"time"
)

// CountImages returns the total number of image records.
func (s *Store) CountImages(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gallery_images`).Scan(&n)
	return n, err
}

// CountImagesCreatedBetween counts images created in [from, to).
func (s *Store) CountImagesCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM gallery_images
		WHERE created_at >= ? AND created_at < ?`,
		formatTime(from), formatTime(to)).Scan(&n)
	return n, err
}

// ListImageCreationTimesSince returns the creation time of every image
// created at or after since, oldest first.
func (s *Store) ListImageCreationTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at FROM gallery_images
		WHERE created_at >= ?
		ORDER BY created_at ASC`, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := []time.Time{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		t, err := parseTime(raw)
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}
