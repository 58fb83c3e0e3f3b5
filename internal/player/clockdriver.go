package player

import (
	"sync"
	"time"
)

// ClockDriver simulates a media element with a wall-clock position:
// while playing, PositionMs advances with elapsed time from the last
// write, exactly how the engine extrapolates canonical state. It backs
// headless sessions and every reconciler test.
type ClockDriver struct {
	mu         sync.Mutex
	src        string
	playing    bool
	positionMs int64
	asOf       time.Time
	durationMs int64

	blockAutoplay bool
	onPlaying     func()
	now           func() time.Time
}

type ClockDriverOption func(*ClockDriver)

// WithClock injects a deterministic time source.
func WithClock(now func() time.Time) ClockDriverOption {
	return func(d *ClockDriver) { d.now = now }
}

// WithAutoplayBlocked makes Play fail the way a browser autoplay policy
// would until a Play call is made after UnblockAutoplay.
func WithAutoplayBlocked() ClockDriverOption {
	return func(d *ClockDriver) { d.blockAutoplay = true }
}

// WithDuration fixes the reported media duration.
func WithDuration(ms int64) ClockDriverOption {
	return func(d *ClockDriver) { d.durationMs = ms }
}

func NewClockDriver(onPlaying func(), opts ...ClockDriverOption) *ClockDriver {
	d := &ClockDriver{
		onPlaying: onPlaying,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.asOf = d.now()

	return d
}

func (d *ClockDriver) Load(src string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.src = src
	d.playing = false
	d.positionMs = 0
	d.asOf = d.now()

	return nil
}

func (d *ClockDriver) Play() error {
	d.mu.Lock()
	if d.blockAutoplay {
		d.mu.Unlock()
		return ErrAutoplayBlocked
	}
	if !d.playing {
		d.positionMs = d.positionLocked()
		d.playing = true
		d.asOf = d.now()
	}
	onPlaying := d.onPlaying
	d.mu.Unlock()

	if onPlaying != nil {
		onPlaying()
	}

	return nil
}

func (d *ClockDriver) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.positionMs = d.positionLocked()
	d.playing = false
	d.asOf = d.now()

	return nil
}

func (d *ClockDriver) SeekTo(ms int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.positionMs = ms
	d.asOf = d.now()

	return nil
}

func (d *ClockDriver) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.playing
}

func (d *ClockDriver) PositionMs() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.positionLocked()
}

func (d *ClockDriver) DurationMs() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.durationMs
}

func (d *ClockDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.playing = false

	return nil
}

// UnblockAutoplay mimics the user gesture that lifts an autoplay block.
func (d *ClockDriver) UnblockAutoplay() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.blockAutoplay = false
}

// Src reports the currently loaded source.
func (d *ClockDriver) Src() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.src
}

func (d *ClockDriver) positionLocked() int64 {
	if !d.playing {
		return d.positionMs
	}
	return d.positionMs + d.now().Sub(d.asOf).Milliseconds()
}
