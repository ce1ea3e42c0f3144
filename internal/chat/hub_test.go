package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
)

func startHubServer(t *testing.T) (*Hub, *Registry, *httptest.Server) {
	t.Helper()
	hub, reg := testHub()

	mux := http.NewServeMux()
	mux.Handle("GET /ws/game/{gameId}", http.HandlerFunc(hub.ServeWS))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, reg, srv
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, srv.URL+"/ws/game/"+gameID, nil)
	require.NoError(t, err)
	return c
}

func readPayload(t *testing.T, c *websocket.Conn) Payload {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	typ, data, err := c.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageText, typ)

	var p Payload
	require.NoError(t, json.Unmarshal(data, &p))
	return p
}

func TestServeWSRejectsBadGameID(t *testing.T) {
	_, _, srv := startHubServer(t)

	resp, err := http.Get(srv.URL + "/ws/game/not-a-number")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeWSHeartbeat(t *testing.T) {
	_, _, srv := startHubServer(t)

	c := dial(t, srv, "7")
	defer c.Close(websocket.StatusNormalClosure, "done")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte("ping")))
	typ, data, err := c.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageText, typ)
	require.Equal(t, "pong", string(data))
}

// Full scenario: room 42 has clients A and B, A's submission reaches
// both, then B's disconnect leaves A alone in the room.
func TestChatRoomScenario(t *testing.T) {
	hub, reg, srv := startHubServer(t)

	purchases := &fakePurchases{owned: map[[2]int64]bool{{1, 42}: true}}
	messages := &fakeMessages{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), purchases, messages, hub)

	connA := dial(t, srv, "42")
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dial(t, srv, "42")

	require.Eventually(t, func() bool {
		return len(reg.Connections(42)) == 2
	}, 5*time.Second, 10*time.Millisecond)

	m, err := svc.Post(context.Background(), 1, 42, "gg")
	require.NoError(t, err)
	require.Len(t, messages.saved, 1)

	for _, c := range []*websocket.Conn{connA, connB} {
		p := readPayload(t, c)
		require.Equal(t, TypeNewMessage, p.Type)
		require.Equal(t, "gg", p.Content)
		require.Equal(t, "alice", p.AuthorUsername)
		require.True(t, m.CreatedAt.Equal(p.CreatedAt))
	}

	// B leaves: the room shrinks to A, who gets the presence notice.
	require.NoError(t, connB.Close(websocket.StatusNormalClosure, "bye"))

	require.Eventually(t, func() bool {
		return len(reg.Connections(42)) == 1
	}, 5*time.Second, 10*time.Millisecond)

	p := readPayload(t, connA)
	require.Equal(t, TypeDisconnected, p.Type)
}

func TestHubCloseDropsAllConnections(t *testing.T) {
	hub, reg, srv := startHubServer(t)

	connA := dial(t, srv, "1")
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dial(t, srv, "2")
	defer connB.Close(websocket.StatusNormalClosure, "done")

	require.Eventually(t, func() bool {
		counts := reg.Counts()
		return counts[1] == 1 && counts[2] == 1
	}, 5*time.Second, 10*time.Millisecond)

	hub.Close()

	require.Eventually(t, func() bool {
		return len(reg.Counts()) == 0
	}, 5*time.Second, 10*time.Millisecond)
}

var _ MessageStore = (*store.Postgres)(nil)
var _ PurchaseChecker = (*store.Postgres)(nil)
