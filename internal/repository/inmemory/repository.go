package inmemory

import (
	"context"
	"sync"

	"github.com/theaterparty/server/internal/domain"
	"github.com/theaterparty/server/internal/repository"
)

// repo keeps the playlist and chat history in process memory. It backs
// single-node deployments that do not want a redis dependency, and tests.
type repo struct {
	videos      []domain.Video
	messages    []domain.ChatMessage
	nextVideoID int64
	mu          sync.RWMutex
}

func NewRepo() *repo {
	return &repo{nextVideoID: 1}
}

func (r *repo) GetPlaylist(_ context.Context) ([]domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]domain.Video, len(r.videos))
	copy(videos, r.videos)

	return videos, nil
}

func (r *repo) AddToPlaylist(_ context.Context, draft domain.VideoDraft) (domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	video := domain.Video{
		ID:         r.nextVideoID,
		Src:        draft.Src,
		Title:      draft.Title,
		Provider:   draft.Provider,
		DurationMs: draft.DurationMs,
		Captions:   draft.Captions,
	}
	r.nextVideoID++
	r.videos = append(r.videos, video)

	return video, nil
}

func (r *repo) GetVideo(_ context.Context, videoID int64) (domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.videos {
		if v.ID == videoID {
			return v, nil
		}
	}

	return domain.Video{}, repository.ErrVideoNotFound
}

func (r *repo) AddMessage(_ context.Context, message domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, message)

	return nil
}

func (r *repo) GetRecentMessages(_ context.Context, limit int) ([]domain.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || len(r.messages) == 0 {
		return nil, nil
	}
	if limit > len(r.messages) {
		limit = len(r.messages)
	}

	messages := make([]domain.ChatMessage, limit)
	copy(messages, r.messages[len(r.messages)-limit:])

	return messages, nil
}
