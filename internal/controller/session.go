package controller

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/theaterparty/server/internal/protocol"
	"github.com/theaterparty/server/internal/theater"
)

type ctxKey int

const sessionCtxKey ctxKey = iota

// session is the per-connection bookkeeping the handlers need: who the
// connection is, and which liveness probes are still in flight.
type session struct {
	memberID string

	mu         sync.Mutex
	nextPingID int
	pending    map[int]time.Time
}

func newSession(memberID string) *session {
	return &session{
		memberID: memberID,
		pending:  make(map[int]time.Time),
	}
}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

func (c controller) getSessionFromCtx(ctx context.Context) *session {
	return ctx.Value(sessionCtxKey).(*session)
}

// nextPing stamps a new probe and records its send time.
func (s *session) nextPing() protocol.PingPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPingID++
	s.pending[s.nextPingID] = time.Now()

	return protocol.PingPayload{ID: s.nextPingID}
}

// resolvePing matches an echoed probe id against its send time. Unknown
// or duplicated ids yield ok=false.
func (s *session) resolvePing(id int) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sentAt, ok := s.pending[id]
	if !ok {
		return 0, false
	}
	delete(s.pending, id)

	return time.Since(sentAt), true
}

// pingLoop probes the connection until the context is cancelled. The
// first probe goes out immediately so a fresh member gets a latency
// sample without waiting a full period.
func (c controller) pingLoop(ctx context.Context, conn *websocket.Conn, sess *session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		c.sender.toConn(ctx, conn, Output{Type: theater.MsgPing, Payload: sess.nextPing()})

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
