package chat

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// writeTimeout bounds every outbound send so one stalled peer cannot
// stall its whole room. A timeout counts as a delivery failure.
const writeTimeout = 5 * time.Second

// Conn wraps one websocket client scoped to a single room.
type Conn struct {
	ws     *websocket.Conn
	gameID int64
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a WS connection for a specific game room
func NewConn(ws *websocket.Conn, gameID int64) *Conn {
	return &Conn{ws: ws, gameID: gameID}
}

// Send writes one text frame with the per-send deadline applied.
// nhooyr serializes concurrent writers, so broadcast sends and the
// heartbeat pong don't race.
func (c *Conn) Send(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.ws.Write(ctx, websocket.MessageText, data)
}

// ReadText blocks until the next text frame or a disconnect.
// Returns false when the connection is gone.
func (c *Conn) ReadText(ctx context.Context) (string, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return "", false
		}
		if typ == websocket.MessageText {
			return string(data), true
		}
	}
}

// Close closes the WS connection normally
func (c *Conn) Close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
