package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaterparty/server/internal/domain"
	"github.com/theaterparty/server/internal/repository"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return NewRepo(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
}

func TestPlaylist(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	playlist, err := r.GetPlaylist(ctx)
	require.NoError(t, err)
	assert.Empty(t, playlist)

	first, err := r.AddToPlaylist(ctx, domain.VideoDraft{
		Src:        "dQw4w9WgXcQ",
		Title:      "first",
		Provider:   domain.ProviderYoutube,
		DurationMs: 212_000,
		Captions:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	second, err := r.AddToPlaylist(ctx, domain.VideoDraft{
		Src:      "https://cdn.example/movie.mp4",
		Title:    "second",
		Provider: domain.ProviderNative,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID, "ids are monotonically increasing")

	playlist, err = r.GetPlaylist(ctx)
	require.NoError(t, err)
	require.Len(t, playlist, 2)
	assert.Equal(t, first, playlist[0], "playlist preserves insertion order")
	assert.Equal(t, second, playlist[1])
	assert.Equal(t, domain.ProviderYoutube, playlist[0].Provider)
	assert.True(t, playlist[0].Captions)

	got, err := r.GetVideo(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	_, err = r.GetVideo(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrVideoNotFound)
}

func TestMessages(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	messages, err := r.GetRecentMessages(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, messages)

	for i := 0; i < 5; i++ {
		err := r.AddMessage(ctx, domain.ChatMessage{
			BodyHTML:   fmt.Sprintf("message %d", i),
			SenderID:   "m1",
			SenderName: "alice",
		})
		require.NoError(t, err)
	}
	err = r.AddMessage(ctx, domain.ChatMessage{IsAnnouncement: true, BodyHTML: "someone joined"})
	require.NoError(t, err)

	messages, err = r.GetRecentMessages(ctx, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "message 3", messages[0].BodyHTML, "replay returns the newest messages in order")
	assert.Equal(t, "message 4", messages[1].BodyHTML)
	assert.True(t, messages[2].IsAnnouncement)
	assert.Equal(t, "alice", messages[0].SenderName)

	messages, err = r.GetRecentMessages(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, messages, 6, "asking for more than stored returns everything")

	messages, err = r.GetRecentMessages(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
