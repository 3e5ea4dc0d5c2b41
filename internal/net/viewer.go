package net

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gorilla/websocket"
)

// Viewer is the receiving end of a shared notebook.
type Viewer struct {
	conn *websocket.Conn
	addr string
}

// Dial connects to the hub at addr (host:port).
func Dial(ctx context.Context, addr string) (*Viewer, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: Path}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	slog.Info("connected to host", "component", "viewer", "addr", addr)
	return &Viewer{conn: conn, addr: addr}, nil
}

// Run reads frames until the connection ends or ctx is done, handing each
// valid message to handle on the calling goroutine. Invalid frames are
// logged and skipped.
func (v *Viewer) Run(ctx context.Context, handle func(Message)) error {
	stop := context.AfterFunc(ctx, func() { v.conn.Close() })
	defer stop()

	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read from %s: %w", v.addr, err)
		}
		m, err := Decode(data)
		if err != nil {
			slog.Warn("dropping frame", "component", "viewer", "err", err)
			continue
		}
		handle(m)
	}
}

// Close ends the session.
func (v *Viewer) Close() error {
	return v.conn.Close()
}

func encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.Type, err)
	}
	return data, nil
}
