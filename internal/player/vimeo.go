package player

import (
	"fmt"

	"github.com/theaterparty/server/internal/domain"
)

// vimeoBackend reconciles play/pause before seeking: the embed resolves
// a seek issued while paused only once playback resumes, so applying
// the play state first keeps the two from cancelling out.
type vimeoBackend struct {
	driver  Driver
	prevSrc string
}

func (b *vimeoBackend) Kind() domain.Provider { return domain.ProviderVimeo }

func (b *vimeoBackend) CurrentTimeMs() int64 { return b.driver.PositionMs() }

func (b *vimeoBackend) DurationMs() int64 { return b.driver.DurationMs() }

func (b *vimeoBackend) Playing() bool { return b.driver.Playing() }

func (b *vimeoBackend) SetState(playlist []domain.Video, state domain.PlaybackState) error {
	video, ok := currentVideo(playlist, state)
	if !ok {
		return fmt.Errorf("video %d is not in the playlist", state.CurrentVideoID)
	}

	if video.Src != b.prevSrc {
		if err := b.driver.Load(video.Src); err != nil {
			return fmt.Errorf("failed to load video: %w", err)
		}
		b.prevSrc = video.Src
	}

	if state.Playing && !b.driver.Playing() {
		if err := b.driver.Play(); err != nil {
			return err
		}
	} else if !state.Playing && b.driver.Playing() {
		if err := b.driver.Pause(); err != nil {
			return err
		}
	}

	if diff := b.driver.PositionMs() - state.CurrentTimeMs; diff > seekThresholdMs || diff < -seekThresholdMs {
		if err := b.driver.SeekTo(state.CurrentTimeMs); err != nil {
			return fmt.Errorf("failed to seek: %w", err)
		}
	}

	return nil
}

func (b *vimeoBackend) Remove() {
	b.driver.Close()
}
