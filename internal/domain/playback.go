package domain

import "time"

// PlaybackState is the canonical playback tuple. The authoritative copy
// lives in the theater engine; clients hold replicas pushed over the wire.
type PlaybackState struct {
	Playing        bool  `json:"playing"`
	CurrentVideoID int64 `json:"current_video_id"`
	CurrentTimeMs  int64 `json:"current_time_ms"`
}

// TimestampedState couples canonical state with the wall-clock instant it
// was last written, so the effective position can be derived on demand
// instead of being advanced by a timer.
type TimestampedState struct {
	State PlaybackState
	AsOf  time.Time
}

// Effective returns the state as of now. While playing, the stored
// position advances with elapsed wall-clock time; while paused it is
// frozen.
func (t TimestampedState) Effective(now time.Time) PlaybackState {
	s := t.State
	if s.Playing {
		s.CurrentTimeMs += now.Sub(t.AsOf).Milliseconds()
	}
	return s
}

// ChangeKind discriminates the change-request union.
type ChangeKind string

const (
	ChangePlaying ChangeKind = "playing"
	ChangeTime    ChangeKind = "time"
	ChangeVideo   ChangeKind = "video"
)

// ChangeRequest mirrors a single user action. Exactly one of the value
// fields is meaningful, selected by Kind.
type ChangeRequest struct {
	Kind    ChangeKind `json:"kind"`
	Playing bool       `json:"playing,omitempty"`
	TimeMs  int64      `json:"time_ms,omitempty"`
	VideoID int64      `json:"video_id,omitempty"`
}
