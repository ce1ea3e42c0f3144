package chat

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/require"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
)

type fakePurchases struct {
	owned map[[2]int64]bool
	err   error
}

func (f *fakePurchases) HasPurchase(_ context.Context, userID, gameID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.owned[[2]int64{userID, gameID}], nil
}

type fakeMessages struct {
	nextID int64
	saved  []store.Message
	err    error
}

func (f *fakeMessages) CreateMessage(_ context.Context, userID, gameID int64, content string) (store.Message, error) {
	if f.err != nil {
		return store.Message{}, f.err
	}
	f.nextID++
	m := store.Message{
		ID:       f.nextID,
		UserID:   userID,
		GameID:   gameID,
		Username: "alice",
		Content:  content,
		// Server-assigned timestamp, distinct per row.
		CreatedAt: time.Unix(1700000000+f.nextID, 0).UTC(),
	}
	f.saved = append(f.saved, m)
	return m, nil
}

type fakeBroadcaster struct {
	calls []struct {
		GameID  int64
		Payload Payload
	}
}

func (f *fakeBroadcaster) Broadcast(_ context.Context, gameID int64, p Payload) {
	f.calls = append(f.calls, struct {
		GameID  int64
		Payload Payload
	}{gameID, p})
}

func newTestService(purchases *fakePurchases, messages *fakeMessages, bc *fakeBroadcaster) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, purchases, messages, bc)
}

func TestPostRequiresOwnership(t *testing.T) {
	purchases := &fakePurchases{owned: map[[2]int64]bool{}}
	messages := &fakeMessages{}
	bc := &fakeBroadcaster{}
	svc := newTestService(purchases, messages, bc)

	_, err := svc.Post(context.Background(), 1, 42, "gg")
	require.ErrorIs(t, err, ErrOwnershipRequired)

	// Aborted before persistence: nothing saved, nothing broadcast.
	require.Empty(t, messages.saved)
	require.Empty(t, bc.calls)
}

func TestPostOwnershipCheckFailure(t *testing.T) {
	purchases := &fakePurchases{err: errors.New("db down")}
	messages := &fakeMessages{}
	bc := &fakeBroadcaster{}
	svc := newTestService(purchases, messages, bc)

	_, err := svc.Post(context.Background(), 1, 42, "gg")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrOwnershipRequired)
	require.Empty(t, messages.saved)
	require.Empty(t, bc.calls)
}

func TestPostPersistenceFailureSkipsBroadcast(t *testing.T) {
	purchases := &fakePurchases{owned: map[[2]int64]bool{{1, 42}: true}}
	messages := &fakeMessages{err: errors.New("insert failed")}
	bc := &fakeBroadcaster{}
	svc := newTestService(purchases, messages, bc)

	_, err := svc.Post(context.Background(), 1, 42, "gg")
	require.Error(t, err)
	require.Empty(t, bc.calls, "an unsaved message must never be broadcast")
}

func TestPostBroadcastsThePersistedRow(t *testing.T) {
	purchases := &fakePurchases{owned: map[[2]int64]bool{{1, 42}: true}}
	messages := &fakeMessages{}
	bc := &fakeBroadcaster{}
	svc := newTestService(purchases, messages, bc)

	m, err := svc.Post(context.Background(), 1, 42, "gg")
	require.NoError(t, err)
	require.Equal(t, "gg", m.Content)

	require.Len(t, bc.calls, 1)
	call := bc.calls[0]
	require.Equal(t, int64(42), call.GameID)
	require.Equal(t, TypeNewMessage, call.Payload.Type)

	// The payload mirrors the stored row, including the server-assigned
	// timestamp, not the raw submission.
	stored := messages.saved[0]
	require.Equal(t, stored.Content, call.Payload.Content)
	require.Equal(t, stored.Username, call.Payload.AuthorUsername)
	require.Equal(t, stored.CreatedAt, call.Payload.CreatedAt)
}

func TestPostSequentialSubmissionsKeepOrder(t *testing.T) {
	purchases := &fakePurchases{owned: map[[2]int64]bool{{1, 42}: true}}
	messages := &fakeMessages{}
	bc := &fakeBroadcaster{}
	svc := newTestService(purchases, messages, bc)

	first, err := svc.Post(context.Background(), 1, 42, "first")
	require.NoError(t, err)
	second, err := svc.Post(context.Background(), 1, 42, "second")
	require.NoError(t, err)

	require.Less(t, first.ID, second.ID)
	require.True(t, first.CreatedAt.Before(second.CreatedAt))

	require.Len(t, bc.calls, 2)
	require.Equal(t, "first", bc.calls[0].Payload.Content)
	require.Equal(t, "second", bc.calls[1].Payload.Content)
}
