package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/theaterparty/server/internal/repository/connection"
	"github.com/theaterparty/server/internal/theater"
)

// Output is the server-to-client wire envelope.
type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// sender serializes all connection writes behind one mutex. Gorilla
// connections tolerate one writer at a time, and a single lock also
// keeps delivery order across connections identical to the order the
// engine produced the messages in.
type sender struct {
	connRepo iConnRepo
	logger   *slog.Logger
	mu       sync.Mutex
}

func newSender(connRepo iConnRepo, logger *slog.Logger) *sender {
	return &sender{
		connRepo: connRepo,
		logger:   logger,
	}
}

// deliver resolves each outbound's address and writes it. A failed or
// vanished connection is logged and skipped; its own serve loop is
// responsible for tearing it down.
func (s *sender) deliver(ctx context.Context, outbounds []theater.Outbound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, out := range outbounds {
		msg := Output{Type: out.Type, Payload: out.Payload}

		if out.MemberID == "" {
			for _, conn := range s.connRepo.Conns() {
				s.write(ctx, conn, msg)
			}
			continue
		}

		conn, err := s.connRepo.GetConn(out.MemberID)
		if err != nil {
			if !errors.Is(err, connection.ErrNotFound) {
				s.logger.WarnContext(ctx, "failed to get conn", "member_id", out.MemberID, "error", err)
			}
			continue
		}
		s.write(ctx, conn, msg)
	}
}

// toConn writes a single message to a known connection, still under the
// sender lock so it cannot interleave with a broadcast.
func (s *sender) toConn(ctx context.Context, conn *websocket.Conn, msg Output) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.write(ctx, conn, msg)
}

func (s *sender) write(ctx context.Context, conn *websocket.Conn, msg Output) {
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.DebugContext(ctx, "failed to write message", "type", msg.Type, "error", err)
	}
}
