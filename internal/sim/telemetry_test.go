package sim

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/vk/fuzztruck/internal/testutil"
	"github.com/vk/fuzztruck/internal/wire"
)

// startHub serves a hub over a test HTTP server and returns its ws:// URL.
func startHub(t *testing.T, hub *Hub) string {
	t.Helper()
	ctx := testutil.Context(t)

	srv := httptest.NewUnstartedServer(hub)
	// Handlers pull their logger from the request context.
	srv.Config.BaseContext = func(net.Listener) context.Context { return ctx }
	srv.Start()
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHub_BroadcastReachesObservers(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)

	hub := NewHub()
	defer hub.Close()
	url := startHub(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The upgrade handshake finishes before registration completes; wait
	// for the hub to see the observer.
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Broadcast(ctx, "abc", 3, wire.State{X: 0.5, Y: 0.9, Angle: 91}, false, false)

	var frame Frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, Frame{Session: "abc", Cycle: 3, X: 0.5, Y: 0.9, Angle: 91}, frame)
}

func TestHub_DropsClosedObservers(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)

	hub := NewHub()
	defer hub.Close()
	url := startHub(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.Close()

	// Broadcasting to a dead observer removes it; the hub ends up empty.
	require.Eventually(t, func() bool {
		hub.Broadcast(ctx, "abc", 1, wire.State{}, false, false)
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 0
	}, time.Second, 5*time.Millisecond)
}
