package theater

import (
	"context"
	"fmt"

	"github.com/theaterparty/server/internal/domain"
)

const (
	alertPressPlay = "Your browser blocked autoplay - press play to catch up with everyone else."
	alertSyncingUp = "Syncing you up with everyone else..."
)

// ApplyChangeRequest mutates canonical state according to the request's
// tagged-union semantics and returns the broadcast that every member
// must observe. Requests are never rejected for content reasons; a
// request naming a video outside the playlist is dropped, and the
// requester alone is snapped back to the unchanged canonical state.
func (t *Theater) ApplyChangeRequest(ctx context.Context, memberID string, req domain.ChangeRequest) ([]Outbound, error) {
	var playlist []domain.Video
	if req.Kind == domain.ChangeVideo {
		var err error
		playlist, err = t.playlistStore.GetPlaylist(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get playlist: %w", err)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	effective := t.state.Effective(now)

	switch req.Kind {
	case domain.ChangePlaying:
		effective.Playing = req.Playing
	case domain.ChangeTime:
		if req.TimeMs < 0 {
			t.logger.DebugContext(ctx, "dropping seek to negative position", "member_id", memberID, "time_ms", req.TimeMs)
			return []Outbound{target(memberID, MsgStateSet, effective)}, nil
		}
		// seeking always pauses; otherwise the seek races concurrent
		// playback advance
		effective.Playing = false
		effective.CurrentTimeMs = req.TimeMs
	case domain.ChangeVideo:
		if !playlistContains(playlist, req.VideoID) {
			t.logger.DebugContext(ctx, "dropping change to unknown video", "member_id", memberID, "video_id", req.VideoID)
			return []Outbound{target(memberID, MsgStateSet, effective)}, nil
		}
		effective.CurrentVideoID = req.VideoID
		effective.CurrentTimeMs = 0
		effective.Playing = false
	default:
		t.logger.DebugContext(ctx, "dropping malformed change request", "member_id", memberID, "kind", string(req.Kind))
		return nil, nil
	}

	t.state = domain.TimestampedState{State: effective, AsOf: now}
	t.logger.DebugContext(ctx, "applied change request",
		"member_id", memberID,
		"kind", string(req.Kind),
		"playing", effective.Playing,
		"video_id", effective.CurrentVideoID,
		"time_ms", effective.CurrentTimeMs,
	)

	return []Outbound{broadcast(MsgStateSet, effective)}, nil
}

// ReportState reconciles a member's periodic self-report against the
// canonical state. Checks are priority-ordered and at most one
// correction is sent per cycle: a wrong video dominates a play/pause
// mismatch, which dominates drift.
func (t *Theater) ReportState(ctx context.Context, memberID string, reported domain.PlaybackState) ([]Outbound, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	member, ok := t.members[memberID]
	if !ok {
		return nil, ErrMemberNotFound
	}

	now := t.now()
	member.lastReport = &memberReport{state: reported, receivedAt: now}
	canonical := t.state.Effective(now)

	if reported.CurrentVideoID != canonical.CurrentVideoID {
		member.autoplayStrikes = 0
		return []Outbound{target(memberID, MsgStateSet, canonical)}, nil
	}

	if reported.Playing != canonical.Playing {
		out := []Outbound{target(memberID, MsgStateSet, canonical)}
		if canonical.Playing && !reported.Playing {
			// canonical playing but the member sits paused: the usual
			// culprit is an autoplay policy silently rejecting play()
			member.autoplayStrikes++
			if member.autoplayStrikes >= t.cfg.AutoplayStrikes {
				member.autoplayStrikes = 0
				out = append(out, target(memberID, MsgAlert, alertPressPlay))
			}
		} else {
			member.autoplayStrikes = 0
		}
		return out, nil
	}
	member.autoplayStrikes = 0

	drift := reported.CurrentTimeMs - canonical.CurrentTimeMs
	if drift < 0 {
		drift = -drift
	}
	if drift > t.cfg.DriftCorrectMs {
		t.logger.DebugContext(ctx, "correcting drift", "member_id", memberID, "drift_ms", drift)
		out := []Outbound{target(memberID, MsgStateSet, canonical)}
		if drift > t.cfg.DriftAlertMs {
			out = append(out, target(memberID, MsgAlert, alertSyncingUp))
		}
		return out, nil
	}

	return nil, nil
}

// RequestStateSync answers an explicit client pull with the current
// effective state and playlist, to the requester only.
func (t *Theater) RequestStateSync(ctx context.Context, memberID string) ([]Outbound, error) {
	playlist, err := t.playlistStore.GetPlaylist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.members[memberID]; !ok {
		return nil, ErrMemberNotFound
	}

	return []Outbound{
		target(memberID, MsgStateSet, t.state.Effective(t.now())),
		target(memberID, MsgPlaylistSet, playlist),
	}, nil
}

func playlistContains(playlist []domain.Video, videoID int64) bool {
	for _, v := range playlist {
		if v.ID == videoID {
			return true
		}
	}
	return false
}
