package theater

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/theaterparty/server/internal/domain"
)

// RosterEntry is one identified member in an audience_info_set payload.
type RosterEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// AdmitMember registers a connection and returns its welcome sequence:
// the id handshake, the full playlist, the current effective state and a
// replay of recent chat history, all addressed to the joiner alone.
func (t *Theater) AdmitMember(ctx context.Context, memberID string) ([]Outbound, error) {
	playlist, err := t.playlistStore.GetPlaylist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	history, err := t.messageStore.GetRecentMessages(ctx, t.cfg.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.members[memberID] = &audienceMember{
		id:          memberID,
		connectedAt: t.now(),
		latencies:   newLatencyWindow(t.cfg.LatencyWindow),
	}

	out := []Outbound{
		target(memberID, MsgIDSet, memberID),
		target(memberID, MsgPlaylistSet, playlist),
		target(memberID, MsgStateSet, t.state.Effective(t.now())),
	}
	for _, m := range history {
		if m.IsAnnouncement {
			out = append(out, target(memberID, MsgChatAnnounce, m.BodyHTML))
		} else {
			out = append(out, target(memberID, MsgChatMessage, m))
		}
	}

	t.logger.InfoContext(ctx, "member admitted", "member_id", memberID, "audience_size", len(t.members))

	return out, nil
}

// RemoveMember drops a member from the audience. Draining the room
// freezes playback at its current effective position, so the next joiner
// resumes exactly where everyone left off.
func (t *Theater) RemoveMember(ctx context.Context, memberID string) ([]Outbound, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	member, ok := t.members[memberID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	wasIdentified := member.identity != nil
	delete(t.members, memberID)

	if len(t.members) == 0 {
		effective := t.state.Effective(t.now())
		effective.Playing = false
		t.state = domain.TimestampedState{State: effective, AsOf: t.now()}
		t.logger.DebugContext(ctx, "pausing video as no one is left to watch")
	}

	t.logger.InfoContext(ctx, "member removed", "member_id", memberID, "audience_size", len(t.members))

	if !wasIdentified {
		return nil, nil
	}

	return []Outbound{broadcast(MsgAudienceInfoSet, t.rosterLocked())}, nil
}

// SetMemberInfo applies a self-reported chat identity. Invalid payloads
// are rejected silently: logged, never surfaced. An accepted identity is
// HTML-escaped on the way in; this is the one sanitization boundary,
// because the fields are later interpolated into rendered markup.
func (t *Theater) SetMemberInfo(ctx context.Context, memberID string, info domain.ChatUserInfo) ([]Outbound, error) {
	info.Name = strings.TrimSpace(info.Name)
	if !strings.HasPrefix(info.AvatarURL, t.cfg.AvatarPathPrefix) || len(info.Name) >= t.cfg.MaxNameLength || info.Name == "" {
		t.logger.DebugContext(ctx, "chat info rejected", "member_id", memberID, "name", info.Name)
		return nil, nil
	}
	info.Name = html.EscapeString(info.Name)

	t.mu.Lock()
	member, ok := t.members[memberID]
	if !ok {
		t.mu.Unlock()
		return nil, ErrMemberNotFound
	}
	member.identity = &info
	out := []Outbound{broadcast(MsgAudienceInfoSet, t.rosterLocked())}
	t.mu.Unlock()

	// resumed sessions were announced when they first signed in
	if info.Resumed {
		return out, nil
	}

	announcement := domain.ChatMessage{
		IsAnnouncement: true,
		BodyHTML:       "<strong>" + info.Name + "</strong> joined the Chat.",
	}
	if err := t.messageStore.AddMessage(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to store announcement: %w", err)
	}
	out = append(out, broadcast(MsgChatAnnounce, announcement.BodyHTML))

	return out, nil
}

// ClearMemberInfo reverts a member to anonymous.
func (t *Theater) ClearMemberInfo(ctx context.Context, memberID string) ([]Outbound, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	member, ok := t.members[memberID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	if member.identity == nil {
		return nil, nil
	}
	member.identity = nil

	return []Outbound{broadcast(MsgAudienceInfoSet, t.rosterLocked())}, nil
}

// RecordLatency pushes one probe round-trip into the member's window.
func (t *Theater) RecordLatency(memberID string, rtt time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	member, ok := t.members[memberID]
	if !ok {
		return ErrMemberNotFound
	}
	member.latencies.push(rtt)

	return nil
}

func (t *Theater) rosterLocked() []RosterEntry {
	roster := make([]RosterEntry, 0, len(t.members))
	for _, m := range t.members {
		if m.identity == nil {
			continue
		}
		roster = append(roster, RosterEntry{
			ID:        m.id,
			Name:      m.identity.Name,
			AvatarURL: m.identity.AvatarURL,
		})
	}
	slices.SortFunc(roster, func(a, b RosterEntry) int {
		return strings.Compare(a.ID, b.ID)
	})

	return roster
}
