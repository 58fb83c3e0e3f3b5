package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/theaterparty/server/internal/repository/connection"
)

// repo is the memberID ⇄ websocket connection registry. A member owns
// exactly one connection for the connection's lifetime.
type repo struct {
	byConn map[*websocket.Conn]string
	byID   map[string]*websocket.Conn
	mu     sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		byConn: make(map[*websocket.Conn]string),
		byID:   make(map[string]*websocket.Conn),
	}
}

func (r *repo) Add(conn *websocket.Conn, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byConn[conn] != "" || r.byID[memberID] != nil {
		return connection.ErrAlreadyExists
	}

	r.byConn[conn] = memberID
	r.byID[memberID] = conn

	return nil
}

func (r *repo) RemoveByMemberID(memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.byID[memberID]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.byConn, conn)
	delete(r.byID, memberID)

	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	memberID, ok := r.byConn[conn]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.byConn, conn)
	delete(r.byID, memberID)

	return nil
}

func (r *repo) GetConn(memberID string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.byID[memberID]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

// Conns snapshots every registered connection, for broadcasts.
func (r *repo) Conns() []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*websocket.Conn, 0, len(r.byConn))
	for conn := range r.byConn {
		conns = append(conns, conn)
	}

	return conns
}

func (r *repo) GetMemberID(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memberID, ok := r.byConn[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return memberID, nil
}
