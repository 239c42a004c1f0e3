package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
)

// Conn wraps websocket.Conn with write/probe timeouts. Messages are raw
// text frames; decoding happens above this layer.
type Conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
}

func NewConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{ws: ws, writeTimeout: writeTimeout}
}

// Read blocks until one message arrives and returns its payload.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	typ, data, err := c.ws.Read(ctx)
	if err != nil {
		return nil, err
	}
	if typ != websocket.MessageText {
		return nil, fmt.Errorf("unexpected message type %v", typ)
	}
	return data, nil
}

// Write sends one text message.
func (c *Conn) Write(ctx context.Context, data []byte) error {
	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}
	return c.ws.Write(ctx, websocket.MessageText, data)
}

// Ping sends a websocket ping and waits for the matching pong.
func (c *Conn) Ping(ctx context.Context) error {
	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}
	return c.ws.Ping(ctx)
}

func (c *Conn) Close(code websocket.StatusCode, reason string) error {
	return c.ws.Close(code, reason)
}
