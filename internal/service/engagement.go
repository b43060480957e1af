package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/promptgallery/gallery-server/internal/domain"
	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
	"github.com/promptgallery/gallery-server/internal/store"
)

// EngagementService maintains likes and the per-post counters.
type EngagementService struct {
	store  store.Store
	logger *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(store store.Store, logger *slog.Logger) *EngagementService {
	return &EngagementService{store: store, logger: logger}
}

// Like records that userID likes postID. Liking twice is a no-op; the
// result reports whether anything changed.
func (s *EngagementService) Like(ctx context.Context, userID, postID string) (bool, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return false, err
	}
	changed, err := s.store.AddLike(ctx, userID, postID)
	if err != nil {
		return false, mapNotFound(err, "post not found")
	}
	if changed && s.logger != nil {
		s.logger.Debug("post liked", "post_id", postID, "user_id", userID)
	}
	return changed, nil
}

// Unlike removes a like. Unliking a post that was not liked is a no-op. A like
// can be withdrawn after the post is hidden.
func (s *EngagementService) Unlike(ctx context.Context, userID, postID string) (bool, error) {
	if _, err := s.store.GetImage(ctx, postID); err != nil {
		return false, mapNotFound(err, "post not found")
	}
	changed, err := s.store.RemoveLike(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if changed && s.logger != nil {
		s.logger.Debug("post unliked", "post_id", postID, "user_id", userID)
	}
	return changed, nil
}

// GetStats returns the post's counters, all zero if none were recorded.
func (s *EngagementService) GetStats(ctx context.Context, postID string) (*domain.PostStats, error) {
	stats, err := s.store.GetPostStats(ctx, postID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return domain.EmptyPostStats(postID), nil
	}
	return stats, nil
}

// RecordDownload increments the post's download counter.
func (s *EngagementService) RecordDownload(ctx context.Context, postID string) error {
	return s.increment(ctx, postID, domain.CounterDownload)
}

// RecordPromptCopy increments the post's prompt-copy counter.
func (s *EngagementService) RecordPromptCopy(ctx context.Context, postID string) error {
	return s.increment(ctx, postID, domain.CounterPromptCopy)
}

// ListLikedPostIDs returns the posts a user currently likes.
func (s *EngagementService) ListLikedPostIDs(ctx context.Context, userID string) ([]string, error) {
	return s.store.ListLikedPostIDs(ctx, userID)
}

func (s *EngagementService) increment(ctx context.Context, postID string, counter domain.Counter) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	if err := s.store.IncrementCounter(ctx, postID, counter); err != nil {
		return mapNotFound(err, "post not found")
	}
	return nil
}

// requirePost admits only posts the public gallery shows: private images
// and unconfirmed uploads are reported as missing.
func (s *EngagementService) requirePost(ctx context.Context, postID string) error {
	img, err := s.store.GetImage(ctx, postID)
	if err != nil {
		return mapNotFound(err, "post not found")
	}
	if !img.IsPublic || img.IsPending() {
		return domainerrors.NotFound("post not found")
	}
	return nil
}

// mapNotFound converts a store not-found error into a domain one.
func mapNotFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(msg)
	}
	return err
}
