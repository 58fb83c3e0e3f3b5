package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/theaterparty/server/internal/domain"
	"github.com/theaterparty/server/internal/repository"
)

type videoHash struct {
	Src        string `redis:"src"`
	Title      string `redis:"title"`
	Provider   string `redis:"provider"`
	DurationMs int64  `redis:"duration_ms"`
	Captions   bool   `redis:"captions"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (r repo) GetPlaylist(ctx context.Context) ([]domain.Video, error) {
	ids, err := r.rc.LRange(ctx, playlistKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist ids: %w", err)
	}

	videos := make([]domain.Video, 0, len(ids))
	for _, rawID := range ids {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse video id %q: %w", rawID, err)
		}

		var vh videoHash
		if err := r.rc.HGetAll(ctx, r.getVideoKey(id)).Scan(&vh); err != nil {
			return nil, fmt.Errorf("failed to get video %d: %w", id, err)
		}

		videos = append(videos, domain.Video{
			ID:         id,
			Src:        vh.Src,
			Title:      vh.Title,
			Provider:   domain.Provider(vh.Provider),
			DurationMs: vh.DurationMs,
			Captions:   vh.Captions,
		})
	}

	return videos, nil
}

func (r repo) AddToPlaylist(ctx context.Context, draft domain.VideoDraft) (domain.Video, error) {
	id, err := r.rc.Incr(ctx, videoNextIDKey).Result()
	if err != nil {
		return domain.Video{}, fmt.Errorf("failed to allocate video id: %w", err)
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, r.getVideoKey(id), videoHash{
		Src:        draft.Src,
		Title:      draft.Title,
		Provider:   string(draft.Provider),
		DurationMs: draft.DurationMs,
		Captions:   draft.Captions,
	})
	pipe.RPush(ctx, playlistKey, formatID(id))
	if err := r.executePipe(ctx, pipe); err != nil {
		return domain.Video{}, fmt.Errorf("failed to add video to playlist: %w", err)
	}

	return domain.Video{
		ID:         id,
		Src:        draft.Src,
		Title:      draft.Title,
		Provider:   draft.Provider,
		DurationMs: draft.DurationMs,
		Captions:   draft.Captions,
	}, nil
}

func (r repo) GetVideo(ctx context.Context, videoID int64) (domain.Video, error) {
	exists, err := r.rc.Exists(ctx, r.getVideoKey(videoID)).Result()
	if err != nil {
		return domain.Video{}, fmt.Errorf("failed to check video existence: %w", err)
	}
	if exists == 0 {
		return domain.Video{}, repository.ErrVideoNotFound
	}

	var vh videoHash
	if err := r.rc.HGetAll(ctx, r.getVideoKey(videoID)).Scan(&vh); err != nil {
		return domain.Video{}, fmt.Errorf("failed to get video %d: %w", videoID, err)
	}

	return domain.Video{
		ID:         videoID,
		Src:        vh.Src,
		Title:      vh.Title,
		Provider:   domain.Provider(vh.Provider),
		DurationMs: vh.DurationMs,
		Captions:   vh.Captions,
	}, nil
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
