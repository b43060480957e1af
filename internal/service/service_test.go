package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/promptgallery/gallery-server/internal/auth"
	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/id"
	"github.com/promptgallery/gallery-server/internal/imagehost"
	"github.com/promptgallery/gallery-server/internal/store"
	"github.com/promptgallery/gallery-server/internal/store/sqlite"
	"github.com/promptgallery/gallery-server/internal/validation"
)

const testAdminEmail = "admin@example.com"

// fakeHost records calls instead of talking to object storage.
type fakeHost struct {
	mu         sync.Mutex
	presigned  []string
	deleted    []string
	presignErr error
	deleteErr  error
}

var _ imagehost.Host = (*fakeHost)(nil)

func (h *fakeHost) PresignUpload(_ context.Context, key, _ string, _ int64) (*imagehost.PresignedUpload, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.presignErr != nil {
		return nil, h.presignErr
	}
	h.presigned = append(h.presigned, key)
	return &imagehost.PresignedUpload{
		URL:       "https://upload.test/" + key + "?X-Amz-Signature=sig",
		Method:    "PUT",
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (h *fakeHost) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (h *fakeHost) KeyFromURL(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, "https://cdn.test/")
	return key, ok && key != ""
}

func (h *fakeHost) Delete(_ context.Context, key string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.deleteErr != nil {
		return h.deleteErr
	}
	h.deleted = append(h.deleted, key)
	return nil
}

// countingStore counts tag searches reaching the store.
type countingStore struct {
	store.Store
	mu       sync.Mutex
	searches int
}

func (c *countingStore) SearchTags(ctx context.Context, query string, limit int) ([]*domain.Tag, error) {
	c.mu.Lock()
	c.searches++
	c.mu.Unlock()
	return c.Store.SearchTags(ctx, query, limit)
}

type testEnv struct {
	store      *countingStore
	sqlite     *sqlite.Store
	host       *fakeHost
	tags       *TagService
	images     *ImageService
	engagement *EngagementService
	analytics  *AnalyticsService
	auth       *AuthService
	tokens     *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	keyHex, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(keyHex, 15*time.Minute)
	require.NoError(t, err)

	st := &countingStore{Store: db}
	host := &fakeHost{}
	v := validation.New()
	tags := NewTagService(st, logger)

	return &testEnv{
		store:      st,
		sqlite:     db,
		host:       host,
		tags:       tags,
		images:     NewImageService(st, host, tags, v, UploadConfig{}, logger),
		engagement: NewEngagementService(st, logger),
		analytics:  NewAnalyticsService(st, logger),
		auth:       NewAuthService(st, tokens, v, testAdminEmail, logger),
		tokens:     tokens,
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id.New(), Email: email, Role: domain.RoleUser, CreatedAt: time.Now().UTC()}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// createImage stores a confirmed public image with tags.
func (e *testEnv) createImage(t *testing.T, uploader string, tags ...string) *domain.Image {
	t.Helper()
	if len(tags) == 0 {
		tags = []string{"misc"}
	}
	img, err := e.tags.CreateImageWithTags(context.Background(), ImageAttributes{
		UploadedBy: uploader,
		ImageURL:   "https://cdn.test/" + id.New() + ".png",
		Prompt:     "a fox in the snow",
		FileSize:   2048,
		IsPublic:   true,
	}, tags)
	require.NoError(t, err)
	return img
}
