package theater

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/theaterparty/server/internal/domain"
)

var ErrMemberNotFound = errors.New("member not found")

// Server-to-client message types. Outbound.Type is always one of these.
const (
	MsgIDSet           = "id_set"
	MsgPlaylistSet     = "playlist_set"
	MsgStateSet        = "state_set"
	MsgAudienceInfoSet = "audience_info_set"
	MsgChatMessage     = "chat_message"
	MsgChatAnnounce    = "chat_announcement"
	MsgAddVideoFailed  = "add_video_failed"
	MsgAlert           = "alert"
	MsgPing            = "ping"
)

// Outbound is one message the engine wants delivered. An empty MemberID
// addresses every connected member. The engine never touches a transport
// connection itself; the transport layer resolves MemberID to a
// connection and performs the write.
type Outbound struct {
	MemberID string
	Type     string
	Payload  any
}

func broadcast(msgType string, payload any) Outbound {
	return Outbound{Type: msgType, Payload: payload}
}

func target(memberID, msgType string, payload any) Outbound {
	return Outbound{MemberID: memberID, Type: msgType, Payload: payload}
}

type iPlaylistStore interface {
	GetPlaylist(ctx context.Context) ([]domain.Video, error)
	AddToPlaylist(ctx context.Context, draft domain.VideoDraft) (domain.Video, error)
}

type iMessageStore interface {
	GetRecentMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error)
	AddMessage(ctx context.Context, message domain.ChatMessage) error
}

type Config struct {
	// HistoryWindow is how many chat messages are replayed to a joiner.
	HistoryWindow int
	// DriftCorrectMs is the reported-position gap that triggers a
	// targeted correction; network jitter sits well below it.
	DriftCorrectMs int64
	// DriftAlertMs is the gap beyond which a correction is large enough
	// to warrant telling the member about the jump.
	DriftAlertMs int64
	// AutoplayStrikes is how many consecutive paused-while-canonical-
	// playing reports produce one "press play" alert.
	AutoplayStrikes int
	// AvatarPathPrefix allow-lists self-reported avatar URLs.
	AvatarPathPrefix string
	// MaxNameLength bounds a trimmed chat display name.
	MaxNameLength int
	// LatencyWindow caps the per-member RTT sample ring.
	LatencyWindow int
}

func DefaultConfig() Config {
	return Config{
		HistoryWindow:    20,
		DriftCorrectMs:   1000,
		DriftAlertMs:     3000,
		AutoplayStrikes:  3,
		AvatarPathPrefix: "/images/avatars/",
		MaxNameLength:    30,
		LatencyWindow:    100,
	}
}

// Theater owns the canonical playback state and the audience membership
// set. All mutation is serialized by one mutex, so every invariant holds
// at each observable boundary; the wall clock is injected for
// deterministic tests.
type Theater struct {
	playlistStore iPlaylistStore
	messageStore  iMessageStore
	logger        *slog.Logger
	cfg           Config
	now           func() time.Time

	mu      sync.Mutex
	state   domain.TimestampedState
	members map[string]*audienceMember
}

func NewTheater(playlistStore iPlaylistStore, messageStore iMessageStore, cfg Config, logger *slog.Logger) *Theater {
	t := Theater{
		playlistStore: playlistStore,
		messageStore:  messageStore,
		logger:        logger,
		cfg:           cfg,
		now:           time.Now,
	}
	t.state = domain.TimestampedState{AsOf: t.now()}
	t.members = make(map[string]*audienceMember)

	return &t
}

// SetClock replaces the wall-clock source. Test hook; not safe once
// members are connected.
func (t *Theater) SetClock(now func() time.Time) {
	t.now = now
	t.state.AsOf = now()
}

// CurrentState returns the effective canonical state as of now.
func (t *Theater) CurrentState() domain.PlaybackState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state.Effective(t.now())
}

// AudienceSize reports how many members are connected.
func (t *Theater) AudienceSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.members)
}
