package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnPair(t *testing.T) (client, server *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(time.Second):
		t.Fatal("no server connection")
	}

	return client, server
}

func TestServeConnRoutes(t *testing.T) {
	clientConn, serverConn := newConnPair(t)

	greetings := make(chan string, 1)
	r := New()
	r.Handle("greet", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var name string
		if err := json.Unmarshal(payload, &name); err != nil {
			return err
		}
		greetings <- name
		return nil
	})

	served := make(chan error, 1)
	go func() { served <- r.ServeConn(context.Background(), serverConn) }()

	require.NoError(t, clientConn.WriteJSON(Message{Type: "greet", Payload: json.RawMessage(`"alice"`)}))
	select {
	case name := <-greetings:
		assert.Equal(t, "alice", name)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}

	clientConn.Close()
	select {
	case err := <-served:
		assert.Error(t, err, "serve loop ends with the read error")
	case <-time.After(time.Second):
		t.Fatal("serve loop did not end")
	}
}

func TestServeConnUnknownType(t *testing.T) {
	clientConn, serverConn := newConnPair(t)

	handled := make(chan string, 2)
	r := New()
	r.Handle("known", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		handled <- "known"
		return nil
	})
	r.OnError(func(ctx context.Context, msgType string, err error) error {
		handled <- "error:" + msgType
		return nil
	})

	go r.ServeConn(context.Background(), serverConn)

	require.NoError(t, clientConn.WriteJSON(Message{Type: "mystery"}))
	require.NoError(t, clientConn.WriteJSON(Message{Type: "known"}))

	assert.Equal(t, "error:mystery", <-handled, "unknown types are reported, not fatal")
	assert.Equal(t, "known", <-handled, "the loop keeps serving after an unknown type")
}

func TestServeConnErrorHookCanTerminate(t *testing.T) {
	clientConn, serverConn := newConnPair(t)

	r := New()
	r.Handle("boom", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		return errors.New("handler failed")
	})
	r.OnError(func(ctx context.Context, msgType string, err error) error {
		return err
	})

	served := make(chan error, 1)
	go func() { served <- r.ServeConn(context.Background(), serverConn) }()

	require.NoError(t, clientConn.WriteJSON(Message{Type: "boom"}))
	select {
	case err := <-served:
		assert.EqualError(t, err, "handler failed")
	case <-time.After(time.Second):
		t.Fatal("serve loop did not end")
	}
}
