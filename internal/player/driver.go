package player

import "errors"

// ErrAutoplayBlocked is returned by Driver.Play when the underlying
// surface refuses programmatic playback, the way browser autoplay
// policies do. The reconciler surfaces it as a prompt, never a failure.
var ErrAutoplayBlocked = errors.New("autoplay blocked")

// Driver is the seam between a backend and whatever actually renders
// video: a media element bridge, a provider embed bridge, or the
// in-process clock driver used headlessly and in tests. Implementations
// must invoke the onPlaying callback passed at construction whenever
// playback (re)starts after buffering or a cue, so the reconciler can
// re-pull canonical state.
type Driver interface {
	Load(src string) error
	Play() error
	Pause() error
	SeekTo(ms int64) error
	Playing() bool
	PositionMs() int64
	DurationMs() int64
	Close() error
}
