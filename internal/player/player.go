package player

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/theaterparty/server/internal/domain"
)

const alertPressPlay = "Playback was blocked - press play to start watching."

// Player is the per-session reconciler: it holds the last canonical
// state pushed by the server and maps it onto whichever backend the
// current playlist entry requires. It does not extrapolate server time;
// it applies state directly and lets the backend's own clock run.
type Player struct {
	drivers      DriverFactory
	requestState func()
	onAlert      func(string)
	logger       *slog.Logger

	mu       sync.Mutex
	playlist []domain.Video
	state    domain.PlaybackState
	backend  Backend
}

// New builds a reconciler. requestState is invoked whenever a backend
// reports it needs fresh canonical state (buffering recovery, cue
// transitions); onAlert surfaces user-facing prompts such as autoplay
// blocks. Either may be nil.
func New(drivers DriverFactory, requestState func(), onAlert func(string), logger *slog.Logger) *Player {
	if requestState == nil {
		requestState = func() {}
	}
	if onAlert == nil {
		onAlert = func(string) {}
	}

	return &Player{
		drivers:      drivers,
		requestState: requestState,
		onAlert:      onAlert,
		logger:       logger,
	}
}

// SetPlaylist replaces the playlist and re-applies the held state, which
// may instantiate the first backend.
func (p *Player) SetPlaylist(videos []domain.Video) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.playlist = videos
	p.applyLocked()
}

// SetState applies a canonical push from the server.
func (p *Player) SetState(state domain.PlaybackState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = state
	p.applyLocked()
}

// Report returns the session's own effective state, fed back to the
// server as a periodic state report. ok is false until a backend exists.
func (p *Player) Report() (domain.PlaybackState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.backend == nil {
		return domain.PlaybackState{}, false
	}

	return domain.PlaybackState{
		Playing:        p.backend.Playing(),
		CurrentVideoID: p.state.CurrentVideoID,
		CurrentTimeMs:  p.backend.CurrentTimeMs(),
	}, true
}

// Close tears the session down. The only way a live backend goes away.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.backend != nil {
		p.backend.Remove()
		p.backend = nil
	}
}

func (p *Player) applyLocked() {
	if len(p.playlist) == 0 {
		return
	}

	if err := p.ensureBackendLocked(); err != nil {
		p.logger.Warn("failed to build backend", "error", err)
		return
	}

	if err := p.backend.SetState(p.playlist, p.state); err != nil {
		if errors.Is(err, ErrAutoplayBlocked) {
			p.logger.Debug("autoplay blocked by backend")
			p.onAlert(alertPressPlay)
			return
		}
		p.logger.Warn("failed to apply state to backend", "error", err)
	}
}

// ensureBackendLocked guarantees exactly one live backend of the kind
// the current video requires, tearing down a mismatched one first so a
// provider switch is atomic from the reconciler's perspective.
func (p *Player) ensureBackendLocked() error {
	video, ok := currentVideo(p.playlist, p.state)
	if !ok {
		// a canonical push for a video this session has not seen yet;
		// keep the old backend until the playlist catches up
		return fmt.Errorf("video %d is not in the playlist", p.state.CurrentVideoID)
	}

	if p.backend != nil && p.backend.Kind() == video.Provider {
		return nil
	}
	if p.backend != nil {
		p.backend.Remove()
		p.backend = nil
	}

	backend, err := newBackend(video.Provider, p.drivers, p.requestState)
	if err != nil {
		return err
	}
	p.backend = backend
	p.logger.Debug("created backend", "provider", string(video.Provider))

	return nil
}
