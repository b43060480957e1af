package postgres

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

// newTestStore connects to the database named by GALLERY_TEST_POSTGRES_DSN
// and empties every table. Tests are skipped when it is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("GALLERY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GALLERY_TEST_POSTGRES_DSN not set")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dsn, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.db.Exec(`TRUNCATE users, tags, gallery_images, image_tags, post_likes, post_stats CASCADE`).Error)
	return s
}

func seedUser(t *testing.T, s *Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: uuid.NewString(), Email: email, Role: domain.RoleUser, CreatedAt: time.Now()}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedImage(t *testing.T, s *Store, uploader string, createdAt time.Time, imageURL string, tagNames ...string) *domain.Image {
	t.Helper()
	ctx := context.Background()
	img := &domain.Image{
		ID: uuid.NewString(), UploadedBy: uploader, ImageURL: imageURL,
		Prompt: "a lighthouse at dusk", FileSize: 1024, IsPublic: true, CreatedAt: createdAt,
	}
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateImage(ctx, img); err != nil {
			return err
		}
		for _, name := range tagNames {
			tag := &domain.Tag{ID: uuid.NewString(), Name: name, Slug: name, CreatedAt: createdAt}
			if err := tx.CreateTag(ctx, tag); err != nil {
				existing, getErr := tx.GetTagBySlug(ctx, name)
				if getErr != nil {
					return err
				}
				tag = existing
			}
			if err := tx.LinkImageTag(ctx, img.ID, tag.ID); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return img
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "admin@example.com")

	img := &domain.Image{ID: uuid.NewString(), UploadedBy: u.ID, ImageURL: "pending-1", Prompt: "p", FileSize: 1, IsPublic: true, CreatedAt: time.Now()}
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.CreateImage(ctx, img))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = s.GetImage(ctx, img.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTags_DuplicateKeepsTxUsable(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "a@example.com")
	seedImage(t, s, u.ID, time.Now(), "https://cdn/1.png", "cats")
	img := seedImage(t, s, u.ID, time.Now(), "https://cdn/2.png", "cats", "cats")

	tags, err := s.GetTagsForImage(context.Background(), img.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	all, err := s.ListTagsWithUsage(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].UsageCount)

	found, err := s.SearchTags(context.Background(), "CAT", 20)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestImages_Pagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "a@example.com")
	base := time.Now().UTC()

	for i := range 3 {
		seedImage(t, s, u.ID, base.Add(time.Duration(i)*time.Second), "https://cdn/x.png", "cats")
	}
	seedImage(t, s, u.ID, base, domain.PendingURL(base))

	params := store.ImageListParams{PaginationParams: store.PaginationParams{Limit: 2}}
	page, err := s.ListPublicImages(ctx, params)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.True(t, page.HasMore)

	params.Cursor = page.NextCursor
	page, err = s.ListPublicImages(ctx, params)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, []string{"cats"}, page.Items[0].TagNames())
}

func TestEngagement_LikesAndCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "a@example.com")
	img := seedImage(t, s, u.ID, time.Now(), "https://cdn/1.png")

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddLike(ctx, u.ID, img.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := s.GetPostStats(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LikeCount)

	for range 2 {
		_, err := s.RemoveLike(ctx, u.ID, img.ID)
		require.NoError(t, err)
	}
	require.NoError(t, s.IncrementCounter(ctx, img.ID, domain.CounterPromptCopy))

	stats, err = s.GetPostStats(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.LikeCount)
	assert.Equal(t, 1, stats.PromptCopyCount)

	require.NoError(t, s.DeleteImage(ctx, img.ID))
	stats, err = s.GetPostStats(ctx, img.ID)
	require.NoError(t, err)
	assert.Nil(t, stats)
}
