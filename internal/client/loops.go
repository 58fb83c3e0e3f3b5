package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/theaterparty/server/internal/domain"
	"github.com/theaterparty/server/internal/protocol"
	"github.com/theaterparty/server/internal/theater"
	"github.com/theaterparty/server/pkg/wsrouter"
)

// readLoop applies every server push until the connection dies. Pushes
// the loop cannot decode are logged and skipped; the canonical state is
// self-healing through the report cycle.
func (s *Session) readLoop() {
	defer close(s.done)
	defer s.player.Close()

	for {
		var msg wsrouter.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			s.logger.Debug("read loop ended", "error", err)
			return
		}

		if err := s.dispatch(msg); err != nil {
			s.logger.Debug("failed to handle message", "type", msg.Type, "error", err)
		}
	}
}

func (s *Session) dispatch(msg wsrouter.Message) error {
	switch msg.Type {
	case theater.MsgIDSet:
		var id string
		if err := json.Unmarshal(msg.Payload, &id); err != nil {
			return err
		}
		s.mu.Lock()
		s.memberID = id
		s.mu.Unlock()

	case theater.MsgPlaylistSet:
		var playlist []domain.Video
		if err := json.Unmarshal(msg.Payload, &playlist); err != nil {
			return err
		}
		s.player.SetPlaylist(playlist)

	case theater.MsgStateSet:
		var state domain.PlaybackState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			return err
		}
		s.player.SetState(state)

	case theater.MsgAudienceInfoSet:
		var roster []theater.RosterEntry
		if err := json.Unmarshal(msg.Payload, &roster); err != nil {
			return err
		}
		s.mu.Lock()
		s.audience = roster
		s.mu.Unlock()

	case theater.MsgChatMessage:
		var m domain.ChatMessage
		if err := json.Unmarshal(msg.Payload, &m); err != nil {
			return err
		}
		s.opts.OnChatMessage(m)

	case theater.MsgChatAnnounce:
		var body string
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			return err
		}
		s.opts.OnChatMessage(domain.ChatMessage{IsAnnouncement: true, BodyHTML: body})

	case theater.MsgAlert:
		var alert string
		if err := json.Unmarshal(msg.Payload, &alert); err != nil {
			return err
		}
		s.opts.OnAlert(alert)

	case theater.MsgAddVideoFailed:
		var payload struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		s.opts.OnAddVideoFailed(payload.URL)

	case theater.MsgPing:
		var ping protocol.PingPayload
		if err := json.Unmarshal(msg.Payload, &ping); err != nil {
			return err
		}
		if err := s.send(protocol.MsgPong, ping); err != nil {
			return fmt.Errorf("failed to send pong: %w", err)
		}

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	return nil
}

// reportLoop feeds the member's observed playback state back to the
// server. No backend yet means nothing to report.
func (s *Session) reportLoop() {
	ticker := time.NewTicker(s.opts.ReportPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		state, ok := s.player.Report()
		if !ok {
			continue
		}
		if err := s.send(protocol.MsgStateReport, state); err != nil {
			s.logger.Debug("failed to send state report", "error", err)
		}
	}
}
