package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// Message is the wire envelope: a type tag plus an opaque payload routed
// to the handler registered for that type.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

// ErrorFunc receives every handler error; returning a non-nil error
// terminates the serve loop.
type ErrorFunc func(ctx context.Context, msgType string, err error) error

type WSRouter struct {
	routes  map[string]HandlerFunc
	onError ErrorFunc
}

func New() *WSRouter {
	return &WSRouter{
		routes: make(map[string]HandlerFunc),
		onError: func(context.Context, string, error) error {
			return nil
		},
	}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

func (r *WSRouter) OnError(f ErrorFunc) {
	r.onError = f
}

// ServeConn reads envelopes off the connection until the read fails,
// dispatching each to its registered handler. Unknown message types are
// reported through the error hook and otherwise dropped.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, ok := r.routes[msg.Type]
		if !ok {
			if err := r.onError(ctx, msg.Type, fmt.Errorf("unknown message type %q", msg.Type)); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, conn, msg.Payload); err != nil {
			if err := r.onError(ctx, msg.Type, err); err != nil {
				return err
			}
		}
	}
}
