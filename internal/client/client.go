// Package client is a headless audience member: it dials the server,
// keeps a reconciling player in step with the canonical state pushes,
// and feeds the member's own playback observations back as periodic
// state reports.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/theaterparty/server/internal/domain"
	"github.com/theaterparty/server/internal/player"
	"github.com/theaterparty/server/internal/protocol"
	"github.com/theaterparty/server/internal/theater"
	"github.com/theaterparty/server/pkg/wsrouter"
)

const reportPeriod = 5 * time.Second

type Options struct {
	// Drivers builds the playback backends; defaults to the in-process
	// clock driver.
	Drivers player.DriverFactory
	// OnAlert receives user-facing prompts pushed by the server or
	// raised locally (autoplay blocks).
	OnAlert func(message string)
	// OnChatMessage receives both chat messages and announcements,
	// replayed history included.
	OnChatMessage func(message domain.ChatMessage)
	// OnAddVideoFailed receives the URL of a submission the server
	// could not resolve.
	OnAddVideoFailed func(url string)
	// ReportPeriod overrides the state-report interval. Zero keeps the
	// default.
	ReportPeriod time.Duration
	Logger       *slog.Logger
}

// Session is one live connection to a theater. All exported methods are
// safe for concurrent use.
type Session struct {
	conn   *websocket.Conn
	player *player.Player
	opts   Options
	logger *slog.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	memberID string
	audience []theater.RosterEntry

	done chan struct{}
}

// Dial connects to a theater at wsURL (ws:// or wss://) and starts the
// read and report loops. The session owns the connection; Close tears
// everything down.
func Dial(ctx context.Context, wsURL string, opts Options) (*Session, error) {
	if opts.Drivers == nil {
		opts.Drivers = player.ClockDriverFactory()
	}
	if opts.OnAlert == nil {
		opts.OnAlert = func(string) {}
	}
	if opts.OnChatMessage == nil {
		opts.OnChatMessage = func(domain.ChatMessage) {}
	}
	if opts.OnAddVideoFailed == nil {
		opts.OnAddVideoFailed = func(string) {}
	}
	if opts.ReportPeriod <= 0 {
		opts.ReportPeriod = reportPeriod
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", wsURL, err)
	}

	s := Session{
		conn:   conn,
		opts:   opts,
		logger: opts.Logger,
		done:   make(chan struct{}),
	}
	s.player = player.New(opts.Drivers, s.requestStateSync, opts.OnAlert, opts.Logger)

	go s.readLoop()
	go s.reportLoop()

	return &s, nil
}

// MemberID returns the id the server assigned, empty until the welcome
// message arrives.
func (s *Session) MemberID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.memberID
}

// Audience returns the last roster push.
func (s *Session) Audience() []theater.RosterEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.audience
}

// Player exposes the session's reconciler, mainly so callers can read
// its effective state.
func (s *Session) Player() *player.Player {
	return s.player
}

// Done is closed when the read loop exits.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Close() error {
	s.player.Close()
	return s.conn.Close()
}

func (s *Session) SetPlaying(playing bool) error {
	return s.send(protocol.MsgStateChangeRequest, domain.ChangeRequest{Kind: domain.ChangePlaying, Playing: playing})
}

func (s *Session) SeekTo(timeMs int64) error {
	return s.send(protocol.MsgStateChangeRequest, domain.ChangeRequest{Kind: domain.ChangeTime, TimeMs: timeMs})
}

func (s *Session) SelectVideo(videoID int64) error {
	return s.send(protocol.MsgStateChangeRequest, domain.ChangeRequest{Kind: domain.ChangeVideo, VideoID: videoID})
}

func (s *Session) AddVideo(videoURL string) error {
	return s.send(protocol.MsgAddVideo, map[string]string{"video_url": videoURL})
}

func (s *Session) SetIdentity(info domain.ChatUserInfo) error {
	return s.send(protocol.MsgUserInfoSet, info)
}

func (s *Session) ClearIdentity() error {
	return s.send(protocol.MsgUserInfoClear, nil)
}

func (s *Session) SendChat(text string) error {
	return s.send(protocol.MsgWroteMessage, text)
}

// RequestStateSync asks the server for a fresh canonical push, targeted
// at this session only.
func (s *Session) RequestStateSync() error {
	return s.send(protocol.MsgStateUpdateRequest, nil)
}

// requestStateSync is the player's recovery hook; failure only means
// the next periodic report will trigger a server-side correction.
func (s *Session) requestStateSync() {
	if err := s.RequestStateSync(); err != nil {
		s.logger.Debug("failed to request state sync", "error", err)
	}
}

func (s *Session) send(msgType string, payload any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		raw = b
	}

	if err := s.conn.WriteJSON(wsrouter.Message{Type: msgType, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write %s: %w", msgType, err)
	}

	return nil
}
