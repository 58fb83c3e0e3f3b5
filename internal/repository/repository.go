// Package repository defines the persistence collaborators the engine
// depends on. Implementations live in the redis and inmemory
// subpackages; a single type may satisfy both interfaces.
package repository

import (
	"context"

	"github.com/theaterparty/server/internal/domain"
)

type PlaylistStore interface {
	GetPlaylist(ctx context.Context) ([]domain.Video, error)
	AddToPlaylist(ctx context.Context, draft domain.VideoDraft) (domain.Video, error)
	GetVideo(ctx context.Context, videoID int64) (domain.Video, error)
}

type MessageStore interface {
	GetRecentMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error)
	AddMessage(ctx context.Context, message domain.ChatMessage) error
}
