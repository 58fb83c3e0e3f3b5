package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaterparty/server/internal/domain"
	"github.com/theaterparty/server/internal/repository"
)

func TestPlaylist(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	playlist, err := r.GetPlaylist(ctx)
	require.NoError(t, err)
	assert.Empty(t, playlist)

	first, err := r.AddToPlaylist(ctx, domain.VideoDraft{Src: "a", Title: "first", Provider: domain.ProviderVimeo})
	require.NoError(t, err)
	second, err := r.AddToPlaylist(ctx, domain.VideoDraft{Src: "b", Title: "second"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	playlist, err = r.GetPlaylist(ctx)
	require.NoError(t, err)
	require.Len(t, playlist, 2)
	assert.Equal(t, first, playlist[0])

	// the returned slice is a copy
	playlist[0].Title = "mutated"
	again, err := r.GetPlaylist(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", again[0].Title)

	got, err := r.GetVideo(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, got)
	_, err = r.GetVideo(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrVideoNotFound)
}

func TestMessages(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	require.NoError(t, r.AddMessage(ctx, domain.ChatMessage{BodyHTML: "one"}))
	require.NoError(t, r.AddMessage(ctx, domain.ChatMessage{BodyHTML: "two"}))
	require.NoError(t, r.AddMessage(ctx, domain.ChatMessage{BodyHTML: "three"}))

	messages, err := r.GetRecentMessages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "two", messages[0].BodyHTML)
	assert.Equal(t, "three", messages[1].BodyHTML)

	messages, err = r.GetRecentMessages(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}
