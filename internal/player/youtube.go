package player

import (
	"fmt"

	"github.com/theaterparty/server/internal/domain"
)

// youtubeBackend models the iframe player's cue semantics: swapping the
// source cues the new video paused at zero, and the player lags behind
// real time coming out of buffering, which the driver reports through
// its onPlaying callback (wired to the reconciler's requestState).
type youtubeBackend struct {
	driver  Driver
	prevSrc string
	cued    bool
}

func (b *youtubeBackend) Kind() domain.Provider { return domain.ProviderYoutube }

func (b *youtubeBackend) CurrentTimeMs() int64 { return b.driver.PositionMs() }

func (b *youtubeBackend) DurationMs() int64 { return b.driver.DurationMs() }

func (b *youtubeBackend) Playing() bool { return b.driver.Playing() }

func (b *youtubeBackend) SetState(playlist []domain.Video, state domain.PlaybackState) error {
	video, ok := currentVideo(playlist, state)
	if !ok {
		return fmt.Errorf("video %d is not in the playlist", state.CurrentVideoID)
	}

	if video.Src != b.prevSrc {
		if err := b.driver.Load(video.Src); err != nil {
			return fmt.Errorf("failed to cue video: %w", err)
		}
		b.prevSrc = video.Src
		b.cued = true
	}

	if diff := b.driver.PositionMs() - state.CurrentTimeMs; diff > seekThresholdMs || diff < -seekThresholdMs {
		if err := b.driver.SeekTo(state.CurrentTimeMs); err != nil {
			return fmt.Errorf("failed to seek: %w", err)
		}
	}

	if state.Playing && (b.cued || !b.driver.Playing()) {
		b.cued = false
		return b.driver.Play()
	}
	if !state.Playing && b.driver.Playing() {
		return b.driver.Pause()
	}

	return nil
}

func (b *youtubeBackend) Remove() {
	b.driver.Close()
}
