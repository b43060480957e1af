package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

// AddLike records a like and bumps the post's like_count in one transaction.
// Returns false without touching the counter if the like already existed.
func (s *Store) AddLike(ctx context.Context, userID, postID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	res, err := tx.ExecContext(ctx, `
		INSERT INTO post_likes (user_id, post_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, post_id) DO NOTHING`,
		userID, postID, now)
	if isForeignKeyViolation(err) {
		return false, store.ErrNotFound.WithMessage("post or user not found")
	}
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO post_stats (post_id, like_count, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT(post_id) DO UPDATE SET
			like_count = like_count + 1,
			updated_at = excluded.updated_at`,
		postID, now)
	if err != nil {
		return false, fmt.Errorf("increment like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}

// RemoveLike deletes a like and decrements like_count, never below zero.
// Returns false without touching the counter if there was no like.
func (s *Store) RemoveLike(ctx context.Context, userID, postID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE post_stats
		SET like_count = MAX(0, like_count - 1), updated_at = ?
		WHERE post_id = ?`,
		formatTime(time.Now()), postID)
	if err != nil {
		return false, fmt.Errorf("decrement like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}

// GetPostStats returns the counters for a post.
// Returns nil, nil if no counter has been touched yet.
func (s *Store) GetPostStats(ctx context.Context, postID string) (*domain.PostStats, error) {
	var (
		st        domain.PostStats
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT post_id, like_count, download_count, prompt_copy_count, updated_at
		FROM post_stats WHERE post_id = ?`, postID).
		Scan(&st.PostID, &st.LikeCount, &st.DownloadCount, &st.PromptCopyCount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	st.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// IncrementCounter adds one to a download or prompt-copy counter,
// creating the stats row on first use.
func (s *Store) IncrementCounter(ctx context.Context, postID string, counter domain.Counter) error {
	col := counter.Column()
	if col == "" {
		return fmt.Errorf("unknown counter %q", counter)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO post_stats (post_id, `+col+`, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT(post_id) DO UPDATE SET
			`+col+` = `+col+` + 1,
			updated_at = excluded.updated_at`,
		postID, formatTime(time.Now()))
	if isForeignKeyViolation(err) {
		return store.ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("increment %s: %w", col, err)
	}
	return nil
}

// ListLikedPostIDs returns the IDs of every post the user has liked,
// most recent first.
func (s *Store) ListLikedPostIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id FROM post_likes
		WHERE user_id = ?
		ORDER BY created_at DESC, post_id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
