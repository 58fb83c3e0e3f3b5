package player

import (
	"fmt"

	"github.com/theaterparty/server/internal/domain"
)

// nativeBackend drives a plain media element: sources load instantly
// and seeks land where they are told to.
type nativeBackend struct {
	driver  Driver
	prevSrc string
}

func (b *nativeBackend) Kind() domain.Provider { return domain.ProviderNative }

func (b *nativeBackend) CurrentTimeMs() int64 { return b.driver.PositionMs() }

func (b *nativeBackend) DurationMs() int64 { return b.driver.DurationMs() }

func (b *nativeBackend) Playing() bool { return b.driver.Playing() }

func (b *nativeBackend) SetState(playlist []domain.Video, state domain.PlaybackState) error {
	video, ok := currentVideo(playlist, state)
	if !ok {
		return fmt.Errorf("video %d is not in the playlist", state.CurrentVideoID)
	}

	if video.Src != b.prevSrc {
		if err := b.driver.Load(video.Src); err != nil {
			return fmt.Errorf("failed to load source: %w", err)
		}
		b.prevSrc = video.Src
	}

	if diff := b.driver.PositionMs() - state.CurrentTimeMs; diff > seekThresholdMs || diff < -seekThresholdMs {
		if err := b.driver.SeekTo(state.CurrentTimeMs); err != nil {
			return fmt.Errorf("failed to seek: %w", err)
		}
	}

	if state.Playing && !b.driver.Playing() {
		return b.driver.Play()
	}
	if !state.Playing {
		return b.driver.Pause()
	}

	return nil
}

func (b *nativeBackend) Remove() {
	b.driver.Close()
}
