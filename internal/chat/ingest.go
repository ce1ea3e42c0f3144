package chat

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/metrics"
)

// PurchaseChecker backs the ownership gate.
type PurchaseChecker interface {
	HasPurchase(ctx context.Context, userID, gameID int64) (bool, error)
}

// MessageStore persists chat messages with server-assigned timestamps.
type MessageStore interface {
	CreateMessage(ctx context.Context, userID, gameID int64, content string) (store.Message, error)
}

// Broadcaster fans a payload out to a room. *Hub in production.
type Broadcaster interface {
	Broadcast(ctx context.Context, gameID int64, p Payload)
}

// Service is the message ingestion path: authorize, persist, broadcast.
type Service struct {
	log       *slog.Logger
	purchases PurchaseChecker
	messages  MessageStore
	hub       Broadcaster
}

// NewService wires the ingestion path to its collaborators
func NewService(logger *slog.Logger, purchases PurchaseChecker, messages MessageStore, hub Broadcaster) *Service {
	return &Service{log: logger, purchases: purchases, messages: messages, hub: hub}
}

// Post turns one chat submission into a persisted, broadcast message.
// The ownership gate is re-verified on every message, not at connect
// time. Order is strict: nothing is broadcast unless the row committed,
// and the payload is built from the stored row so the fan-out reflects
// exactly what was saved. Delivery failures are the broadcast engine's
// problem; the caller only learns whether the message was saved.
func (s *Service) Post(ctx context.Context, userID, gameID int64, content string) (store.Message, error) {
	owns, err := s.purchases.HasPurchase(ctx, userID, gameID)
	if err != nil {
		return store.Message{}, fmt.Errorf("ownership check: %w", err)
	}
	if !owns {
		return store.Message{}, ErrOwnershipRequired
	}

	msg, err := s.messages.CreateMessage(ctx, userID, gameID, content)
	if err != nil {
		return store.Message{}, fmt.Errorf("save message: %w", err)
	}

	s.hub.Broadcast(ctx, gameID, MessagePayload(msg))
	metrics.MessagesPosted.Inc()
	s.log.Debug("chat.posted", "game", gameID, "user", userID, "msg", msg.ID)
	return msg, nil
}
