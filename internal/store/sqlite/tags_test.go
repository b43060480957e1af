package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_ListWithUsage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "a@example.com")
	now := time.Now().UTC()

	seedImage(t, s, u.ID, now, "https://cdn/1.png", "cats", "dogs")
	seedImage(t, s, u.ID, now.Add(time.Second), "https://cdn/2.png", "cats")
	seedImage(t, s, u.ID, now.Add(2*time.Second), "https://cdn/3.png", "cats", "birds")

	tags, err := s.ListTagsWithUsage(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "cats", tags[0].Slug)
	assert.Equal(t, 3, tags[0].UsageCount)
	// Ties break on name.
	assert.Equal(t, "birds", tags[1].Slug)
	assert.Equal(t, "dogs", tags[2].Slug)
}

func TestTags_Search(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "a@example.com")
	now := time.Now().UTC()

	seedImage(t, s, u.ID, now, "https://cdn/1.png", "landscape", "land")
	seedImage(t, s, u.ID, now.Add(time.Second), "https://cdn/2.png", "landscape")
	seedImage(t, s, u.ID, now.Add(2*time.Second), "https://cdn/3.png", "portrait")

	tags, err := s.SearchTags(ctx, "LAND", 20)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "landscape", tags[0].Name)
	assert.Equal(t, 2, tags[0].UsageCount)

	tags, err = s.SearchTags(ctx, "land", 1)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	// Wildcards are matched literally.
	tags, err = s.SearchTags(ctx, "%", 20)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTags_ForImage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "a@example.com")
	img := seedImage(t, s, u.ID, time.Now(), "https://cdn/1.png", "zebra", "apple")

	tags, err := s.GetTagsForImage(ctx, img.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "apple", tags[0].Name)
	assert.Equal(t, "zebra", tags[1].Name)

	none, err := s.GetTagsForImage(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
