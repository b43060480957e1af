package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

// errNoChange aborts a transaction that turned out to be a no-op.
var errNoChange = errors.New("no change")

// AddLike records a like and bumps like_count in one transaction.
func (s *Store) AddLike(ctx context.Context, userID, postID string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ts := now()
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&likeModel{UserID: userID, PostID: postID, CreatedAt: ts})
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return store.ErrNotFound.WithMessage("post or user not found")
		}
		if res.Error != nil {
			return fmt.Errorf("insert like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errNoChange
		}

		return tx.Exec(`
			INSERT INTO post_stats (post_id, like_count, updated_at)
			VALUES (?, 1, ?)
			ON CONFLICT (post_id) DO UPDATE SET
				like_count = post_stats.like_count + 1,
				updated_at = EXCLUDED.updated_at`, postID, ts).Error
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveLike deletes a like and decrements like_count, never below zero.
func (s *Store) RemoveLike(ctx context.Context, userID, postID string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&likeModel{})
		if res.Error != nil {
			return fmt.Errorf("delete like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errNoChange
		}

		return tx.Exec(`
			UPDATE post_stats
			SET like_count = GREATEST(0, like_count - 1), updated_at = ?
			WHERE post_id = ?`, now(), postID).Error
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetPostStats returns the counters for a post, or nil if none exist yet.
func (s *Store) GetPostStats(ctx context.Context, postID string) (*domain.PostStats, error) {
	var m postStatsModel
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.PostStats{
		PostID:          m.PostID,
		LikeCount:       m.LikeCount,
		DownloadCount:   m.DownloadCount,
		PromptCopyCount: m.PromptCopyCount,
		UpdatedAt:       m.UpdatedAt.UTC(),
	}, nil
}

// IncrementCounter adds one to a download or prompt-copy counter.
func (s *Store) IncrementCounter(ctx context.Context, postID string, counter domain.Counter) error {
	col := counter.Column()
	if col == "" {
		return fmt.Errorf("unknown counter %q", counter)
	}

	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO post_stats (post_id, `+col+`, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT (post_id) DO UPDATE SET
			`+col+` = post_stats.`+col+` + 1,
			updated_at = EXCLUDED.updated_at`, postID, now()).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return store.ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("increment %s: %w", col, err)
	}
	return nil
}

// ListLikedPostIDs returns the IDs of every post the user has liked.
func (s *Store) ListLikedPostIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&likeModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, post_id ASC").
		Pluck("post_id", &ids).Error
	return ids, err
}
