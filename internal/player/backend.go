package player

import (
	"fmt"

	"github.com/theaterparty/server/internal/domain"
)

// seekThresholdMs is the backend-position gap below which a seek is
// skipped; seeking on every correction makes playback stutter.
const seekThresholdMs = 1000

// Backend normalizes one provider's player into the capability set the
// reconciler drives. Exactly one backend is live at a time; Remove tears
// down its surface and the backend must not be used afterwards.
type Backend interface {
	Kind() domain.Provider
	CurrentTimeMs() int64
	DurationMs() int64
	Playing() bool
	SetState(playlist []domain.Video, state domain.PlaybackState) error
	Remove()
}

// DriverFactory builds the playing surface for a provider. The onPlaying
// callback must fire whenever the surface (re)enters playback, e.g.
// after a buffering stall.
type DriverFactory func(provider domain.Provider, onPlaying func()) (Driver, error)

// ClockDriverFactory is the headless default: every provider is
// simulated by a clock driver.
func ClockDriverFactory(opts ...ClockDriverOption) DriverFactory {
	return func(_ domain.Provider, onPlaying func()) (Driver, error) {
		return NewClockDriver(onPlaying, opts...), nil
	}
}

func newBackend(provider domain.Provider, drivers DriverFactory, requestState func()) (Backend, error) {
	driver, err := drivers(provider, requestState)
	if err != nil {
		return nil, fmt.Errorf("failed to build %q driver: %w", string(provider), err)
	}

	switch provider {
	case domain.ProviderYoutube:
		return &youtubeBackend{driver: driver}, nil
	case domain.ProviderVimeo:
		return &vimeoBackend{driver: driver}, nil
	default:
		return &nativeBackend{driver: driver}, nil
	}
}

func currentVideo(playlist []domain.Video, state domain.PlaybackState) (domain.Video, bool) {
	for _, v := range playlist {
		if v.ID == state.CurrentVideoID {
			return v, true
		}
	}
	return domain.Video{}, false
}
