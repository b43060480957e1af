package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      "Test User",
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedImage(t *testing.T, s *Store, uploader string, createdAt time.Time, imageURL string, tagNames ...string) *domain.Image {
	t.Helper()
	img := &domain.Image{
		ID:         uuid.NewString(),
		UploadedBy: uploader,
		ImageURL:   imageURL,
		Prompt:     "a lighthouse at dusk",
		AIModel:    "sdxl",
		FileSize:   1024,
		IsPublic:   true,
		CreatedAt:  createdAt,
	}
	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		if err := tx.CreateImage(context.Background(), img); err != nil {
			return err
		}
		for _, name := range tagNames {
			tag, err := tx.GetTagBySlug(context.Background(), name)
			if err != nil {
				tag = &domain.Tag{ID: uuid.NewString(), Name: name, Slug: name, CreatedAt: createdAt}
				if err := tx.CreateTag(context.Background(), tag); err != nil {
					return err
				}
			}
			if err := tx.LinkImageTag(context.Background(), img.ID, tag.ID); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return img
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	for _, table := range []string{"users", "tags", "gallery_images", "image_tags", "post_likes", "post_stats"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Schema is idempotent.
	s2, err := Open(dbPath, logger)
	require.NoError(t, err)
	defer s2.Close()
	assert.NoError(t, s2.Ping(context.Background()))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "admin@example.com")

	img := &domain.Image{
		ID: uuid.NewString(), UploadedBy: u.ID, ImageURL: "pending-1",
		Prompt: "p", FileSize: 10, IsPublic: true, CreatedAt: time.Now(),
	}
	boom := fmt.Errorf("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.CreateImage(ctx, img))
		tag := &domain.Tag{ID: uuid.NewString(), Name: "cats", Slug: "cats", CreatedAt: time.Now()}
		require.NoError(t, tx.CreateTag(ctx, tag))
		require.NoError(t, tx.LinkImageTag(ctx, img.ID, tag.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetImage(ctx, img.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetTagBySlug(ctx, "cats")
	assert.ErrorIs(t, err, store.ErrNotFound)

	var links int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM image_tags").Scan(&links))
	assert.Zero(t, links)
}

func TestWithTx_DuplicateTagKeepsTxUsable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "a@example.com")
	seedImage(t, s, u.ID, time.Now(), "https://cdn.example.com/1.png", "cats")

	img := &domain.Image{
		ID: uuid.NewString(), UploadedBy: u.ID, ImageURL: "pending-2",
		Prompt: "p", FileSize: 10, IsPublic: true, CreatedAt: time.Now(),
	}
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateImage(ctx, img); err != nil {
			return err
		}
		dup := &domain.Tag{ID: uuid.NewString(), Name: "cats", Slug: "cats", CreatedAt: time.Now()}
		err := tx.CreateTag(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		existing, err := tx.GetTagBySlug(ctx, "cats")
		if err != nil {
			return err
		}
		if err := tx.LinkImageTag(ctx, img.ID, existing.ID); err != nil {
			return err
		}
		// Linking twice is a no-op.
		return tx.LinkImageTag(ctx, img.ID, existing.ID)
	})
	require.NoError(t, err)

	tags, err := s.GetTagsForImage(ctx, img.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "cats", tags[0].Slug)
}
