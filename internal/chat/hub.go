package chat

import (
	"context"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/alaeddineatb/projet-techno-web-q2/pkg/metrics"
)

// Hub owns the connection lifecycle: accept, register, serve the read
// loop, and translate disconnects into registry cleanup.
type Hub struct {
	log *slog.Logger
	reg *Registry
}

// NewHub sets up the hub around a shared registry
func NewHub(logger *slog.Logger, reg *Registry) *Hub {
	return &Hub{log: logger, reg: reg}
}

// Registry exposes the room registry for introspection callers
func (h *Hub) Registry() *Registry { return h.reg }

// ServeWS handles a new /ws/game/{gameId} connection. Chat submissions
// arrive over the authenticated POST path, so inbound frames here are
// only heartbeats; anything else is ignored.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(r.PathValue("gameId"), 10, 64)
	if err != nil || gameID <= 0 {
		http.Error(w, "bad game id", http.StatusBadRequest)
		return
	}

	ws, err := Accept(w, r)
	if err != nil {
		// Handshake failed: the connection was never registered,
		// nothing to clean up.
		h.log.Error("ws.accept", "game", gameID, "err", err)
		return
	}

	c := NewConn(ws, gameID)
	h.reg.Register(gameID, c)
	metrics.ChatConnections.Inc()
	h.log.Debug("ws.join", "game", gameID)

	ctx := r.Context()
	for {
		msg, ok := c.ReadText(ctx)
		if !ok {
			break
		}
		if msg == framePing {
			if err := c.Send(ctx, []byte(framePong)); err != nil {
				break
			}
		}
	}

	h.disconnect(ctx, gameID, c)
}

// disconnect unregisters the peer and emits a best-effort presence
// notice to the remaining room members.
func (h *Hub) disconnect(ctx context.Context, gameID int64, p Peer) {
	h.reg.Unregister(gameID, p)
	_ = p.Close()
	metrics.ChatConnections.Dec()
	h.log.Debug("ws.leave", "game", gameID)

	h.Broadcast(context.WithoutCancel(ctx), gameID, DisconnectPayload())
}

// Close tears down every live connection at shutdown. The read loops
// unwind through disconnect, so no socket outlives its registry entry.
func (h *Hub) Close() {
	for _, p := range h.reg.all() {
		_ = p.Close()
	}
}
