package inmemory

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaterparty/server/internal/repository/connection"
)

func TestConnRegistry(t *testing.T) {
	r := NewRepo()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	require.NoError(t, r.Add(conn1, "m1"))
	require.NoError(t, r.Add(conn2, "m2"))
	assert.ErrorIs(t, r.Add(conn1, "m3"), connection.ErrAlreadyExists, "a conn maps to one member")
	assert.ErrorIs(t, r.Add(&websocket.Conn{}, "m1"), connection.ErrAlreadyExists, "a member owns one conn")

	got, err := r.GetConn("m1")
	require.NoError(t, err)
	assert.Same(t, conn1, got)

	memberID, err := r.GetMemberID(conn2)
	require.NoError(t, err)
	assert.Equal(t, "m2", memberID)

	assert.Len(t, r.Conns(), 2)

	require.NoError(t, r.RemoveByMemberID("m1"))
	_, err = r.GetConn("m1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.GetMemberID(conn1)
	assert.ErrorIs(t, err, connection.ErrNotFound)
	assert.ErrorIs(t, r.RemoveByMemberID("m1"), connection.ErrNotFound)

	require.NoError(t, r.RemoveByConn(conn2))
	assert.ErrorIs(t, r.RemoveByConn(conn2), connection.ErrNotFound)
	assert.Empty(t, r.Conns())
}
