package ipc

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/core/host"
	"github.com/tilecore/tilecore/internal/util/testutil"
)

func TestEventsStreamsRearrangeNotification(t *testing.T) {
	s := NewServer(func(host.MonitorID) *btrtile.Tree { return nil })
	ts := httptest.NewServer(s.httpServer.Handler)
	defer ts.Close()

	wsURL := "ws" + ts.URL[len("http"):] + "/events"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	// Give the server goroutine time to register the subscriber before
	// broadcasting, since the dial only guarantees the upgrade, not
	// that handleEvents has reached its subscribe step.
	testutil.RequireEventually(t, func() bool {
		s.mu.Lock()
		n := len(s.subscribers)
		s.mu.Unlock()
		return n == 1
	})

	s.RearrangeHappened(host.MonitorID("DP-1"))

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var e event
	require.NoError(t, json.Unmarshal(data, &e))
	require.Equal(t, eventRearrange, e.Type)
	require.Equal(t, "DP-1", e.Monitor)
}
