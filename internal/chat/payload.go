package chat

import (
	"time"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
)

// Payload types pushed to websocket peers.
const (
	TypeNewMessage   = "new_message"
	TypeDisconnected = "user_disconnected"
)

// Heartbeat frames exchanged on the websocket itself. A bare "ping" is
// answered with a bare "pong" and never enters the broadcast path.
const (
	framePing = "ping"
	framePong = "pong"
)

// Payload is the wire format fanned out to a room's peers. It is built
// from the persisted message row, never from the raw submission.
type Payload struct {
	Type           string    `json:"type"`
	Content        string    `json:"content,omitempty"`
	AuthorUsername string    `json:"authorUsername,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// MessagePayload builds the broadcast payload for a stored chat message
func MessagePayload(m store.Message) Payload {
	return Payload{
		Type:           TypeNewMessage,
		Content:        m.Content,
		AuthorUsername: m.Username,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

// DisconnectPayload builds the presence notice sent when a peer leaves
func DisconnectPayload() Payload {
	return Payload{Type: TypeDisconnected}
}
