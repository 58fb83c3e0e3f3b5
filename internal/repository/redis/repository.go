package redis

import (
	"github.com/redis/go-redis/v9"
)

const (
	playlistKey    = "theater:playlist"
	messagesKey    = "theater:messages"
	videoNextIDKey = "theater:video:next-id"

	// persisted chat is bounded; the replay window is far smaller
	messagesCap = 500
)

type repo struct {
	rc *redis.Client
}

func NewRepo(rc *redis.Client) *repo {
	return &repo{rc: rc}
}

func (r repo) getVideoKey(videoID int64) string {
	return "theater:video:" + formatID(videoID)
}
