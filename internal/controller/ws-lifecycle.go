package controller

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// webSocket admits a new audience member: upgrade, register the
// connection, hand the member its welcome messages, then serve its
// inbound stream until the connection dies.
func (c controller) webSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	memberID := uuid.NewString()
	if err := c.connRepo.Add(conn, memberID); err != nil {
		c.logger.ErrorContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}

	// the serve loop inherits the request context; gorilla keeps the
	// underlying request alive for the lifetime of the hijacked conn
	sess := newSession(memberID)
	ctx := withSession(r.Context(), sess)

	outbounds, err := c.theater.AdmitMember(ctx, memberID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to admit member", "member_id", memberID, "error", err)
		c.connRepo.RemoveByConn(conn)
		conn.Close()
		return
	}
	c.sender.deliver(ctx, outbounds)
	c.logger.InfoContext(ctx, "member connected", "member_id", memberID)

	pingCtx, stopPing := context.WithCancel(ctx)
	go c.pingLoop(pingCtx, conn, sess)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "serve loop ended", "member_id", memberID, "error", err)
	}

	stopPing()
	c.disconnect(context.WithoutCancel(ctx), memberID)
}

func (c controller) disconnect(ctx context.Context, memberID string) {
	if err := c.connRepo.RemoveByMemberID(memberID); err != nil {
		c.logger.DebugContext(ctx, "failed to remove connection", "member_id", memberID, "error", err)
	}

	outbounds, err := c.theater.RemoveMember(ctx, memberID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to remove member", "member_id", memberID, "error", err)
		return
	}
	c.sender.deliver(ctx, outbounds)
	c.logger.InfoContext(ctx, "member disconnected", "member_id", memberID)
}
