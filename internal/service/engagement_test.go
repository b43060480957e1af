package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
)

func TestEngagementService_LikeTwiceCountsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "viewer@example.com")
	img := env.createImage(t, u.ID)

	changed, err := env.engagement.Like(ctx, u.ID, img.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = env.engagement.Like(ctx, u.ID, img.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	stats, err := env.engagement.GetStats(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LikeCount)

	liked, err := env.engagement.ListLikedPostIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{img.ID}, liked)
}

func TestEngagementService_UnlikeWithoutLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "viewer@example.com")
	other := env.createUser(t, "other@example.com")
	img := env.createImage(t, u.ID)

	_, err := env.engagement.Like(ctx, other.ID, img.ID)
	require.NoError(t, err)

	changed, err := env.engagement.Unlike(ctx, u.ID, img.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	stats, err := env.engagement.GetStats(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LikeCount)

	// Nothing recorded at all: still zero, never negative.
	fresh := env.createImage(t, u.ID)
	_, err = env.engagement.Unlike(ctx, u.ID, fresh.ID)
	require.NoError(t, err)
	stats, err = env.engagement.GetStats(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.LikeCount)
}

func TestEngagementService_LikeUnlikeCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "viewer@example.com")
	img := env.createImage(t, u.ID)

	for range 3 {
		_, err := env.engagement.Like(ctx, u.ID, img.ID)
		require.NoError(t, err)
		changed, err := env.engagement.Unlike(ctx, u.ID, img.ID)
		require.NoError(t, err)
		assert.True(t, changed)
	}

	stats, err := env.engagement.GetStats(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.LikeCount)
}

func TestEngagementService_GetStatsWithoutEngagement(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "viewer@example.com")
	img := env.createImage(t, u.ID)

	stats, err := env.engagement.GetStats(context.Background(), img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.ID, stats.PostID)
	assert.Zero(t, stats.LikeCount)
	assert.Zero(t, stats.DownloadCount)
	assert.Zero(t, stats.PromptCopyCount)
}

func TestEngagementService_Counters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "viewer@example.com")
	img := env.createImage(t, u.ID)

	require.NoError(t, env.engagement.RecordDownload(ctx, img.ID))
	require.NoError(t, env.engagement.RecordPromptCopy(ctx, img.ID))
	require.NoError(t, env.engagement.RecordPromptCopy(ctx, img.ID))

	stats, err := env.engagement.GetStats(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DownloadCount)
	assert.Equal(t, 2, stats.PromptCopyCount)
}

func TestEngagementService_MissingPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "viewer@example.com")

	_, err := env.engagement.Like(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = env.engagement.Unlike(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, env.engagement.RecordDownload(ctx, "missing"), domainerrors.ErrNotFound)
}

func TestEngagementService_HiddenPostsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, testAdminEmail)
	u := env.createUser(t, "viewer@example.com")

	private, err := env.tags.CreateImageWithTags(ctx, ImageAttributes{
		UploadedBy: admin.ID,
		ImageURL:   "https://cdn.test/private.png",
		Prompt:     "a hidden cat",
		AIModel:    "sdxl",
		FileSize:   1024,
		IsPublic:   false,
	}, []string{"cats"})
	require.NoError(t, err)

	upload, err := env.images.GenerateUploadURL(ctx, admin.ID, uploadRequest())
	require.NoError(t, err)

	for _, id := range []string{private.ID, upload.RecordID} {
		_, err := env.engagement.Like(ctx, u.ID, id)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
		assert.ErrorIs(t, env.engagement.RecordDownload(ctx, id), domainerrors.ErrNotFound)
		assert.ErrorIs(t, env.engagement.RecordPromptCopy(ctx, id), domainerrors.ErrNotFound)

		changed, err := env.engagement.Unlike(ctx, u.ID, id)
		require.NoError(t, err)
		assert.False(t, changed)

		stats, err := env.engagement.GetStats(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, stats.LikeCount)
		assert.Zero(t, stats.DownloadCount)
		assert.Zero(t, stats.PromptCopyCount)
	}

	liked, err := env.engagement.ListLikedPostIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)
}
