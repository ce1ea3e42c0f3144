package chat

import (
	"context"
	"encoding/json"

	"github.com/alaeddineatb/projet-techno-web-q2/pkg/metrics"
)

// Broadcast delivers one payload to every peer currently registered in
// the room. Delivery is synchronous with a per-send deadline: every
// snapshotted peer is either delivered to or pruned before return.
// A room with no peers is a no-op; that's the common case when nobody
// has the game's chat open. Per-peer failures never reach the caller.
func (h *Hub) Broadcast(ctx context.Context, gameID int64, p Payload) {
	peers := h.reg.Connections(gameID)
	if len(peers) == 0 {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		h.log.Error("broadcast.marshal", "game", gameID, "err", err)
		return
	}

	var failed []Peer
	for _, peer := range peers {
		if err := peer.Send(ctx, data); err != nil {
			failed = append(failed, peer)
			metrics.BroadcastDeliveries.WithLabelValues("failed").Inc()
			continue
		}
		metrics.BroadcastDeliveries.WithLabelValues("ok").Inc()
	}

	// Lazy pruning: dead peers are dropped after the fan-out so one
	// failure cannot abort delivery to the rest.
	for _, peer := range failed {
		h.reg.Unregister(gameID, peer)
		_ = peer.Close()
	}
	if len(failed) > 0 {
		h.log.Debug("broadcast.pruned", "game", gameID, "count", len(failed))
	}
}
