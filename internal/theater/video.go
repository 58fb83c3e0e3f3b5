package theater

import (
	"context"
	"fmt"

	"github.com/theaterparty/server/internal/domain"
)

// AddVideo appends a resolved video draft to the playlist and notifies
// the whole audience of the new playlist. Metadata resolution happens
// upstream, outside the engine, so a slow or failing provider lookup
// never delays playback-state mutation.
func (t *Theater) AddVideo(ctx context.Context, draft domain.VideoDraft) ([]Outbound, error) {
	video, err := t.playlistStore.AddToPlaylist(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to add video to playlist: %w", err)
	}

	t.logger.InfoContext(ctx, "video added to playlist", "video_id", video.ID, "title", video.Title, "provider", string(video.Provider))

	return t.PlaylistChanged(ctx)
}

// PlaylistChanged broadcasts a full playlist replacement.
func (t *Theater) PlaylistChanged(ctx context.Context) ([]Outbound, error) {
	playlist, err := t.playlistStore.GetPlaylist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	return []Outbound{broadcast(MsgPlaylistSet, playlist)}, nil
}
