package postgres

import (
	"context"
	"time"
)

// CountImages returns the total number of image records.
func (s *Store) CountImages(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&imageModel{}).Count(&n).Error
	return int(n), err
}

// CountImagesCreatedBetween counts images created in [from, to).
func (s *Store) CountImagesCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&imageModel{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Count(&n).Error
	return int(n), err
}

// ListImageCreationTimesSince returns creation times at or after since, oldest first.
func (s *Store) ListImageCreationTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := s.db.WithContext(ctx).Model(&imageModel{}).
		Where("created_at >= ?", since.UTC()).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	for i := range times {
		times[i] = times[i].UTC()
	}
	if times == nil {
		times = []time.Time{}
	}
	return times, nil
}
