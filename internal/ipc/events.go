package ipc

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/tilecore/tilecore/internal/core/host"
	"github.com/tilecore/tilecore/internal/util/id"
	"github.com/tilecore/tilecore/internal/util/timefmt"
)

// event is one line of the GET /events JSON stream.
type event struct {
	Type    string `json:"type"`
	Monitor string `json:"monitor"`
	Time    string `json:"time"`
}

const (
	eventRearrange = "rearrange"
	eventResize    = "resize"
)

// subscriberBacklog bounds how far a slow /events client can fall
// behind before notifications for it are dropped rather than blocking
// the core's event-loop thread, which is the thing calling
// RearrangeHappened/ResizeApplied in the first place.
const subscriberBacklog = 16

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.With("component", "ipc").Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	sub := make(chan []byte, subscriberBacklog)
	key := id.Generate()

	s.mu.Lock()
	s.subscribers[key] = sub
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subscribers, key)
		s.mu.Unlock()
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg, ok := <-sub:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// RearrangeHappened implements host.FocusSink: every connected
// /events subscriber is sent a rearrange notification for m.
func (s *Server) RearrangeHappened(m host.MonitorID) {
	s.broadcast(event{Type: eventRearrange, Monitor: string(m), Time: timefmt.Format(time.Now())})
}

// ResizeApplied notifies subscribers that an interactive resize moved
// a split ratio on m. Not part of host.FocusSink and not called by
// Arrange or by internal/core/resize; a caller that applies a resize
// invokes it directly.
func (s *Server) ResizeApplied(m host.MonitorID) {
	s.broadcast(event{Type: eventResize, Monitor: string(m), Time: timefmt.Format(time.Now())})
}

func (s *Server) broadcast(e event) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- raw:
		default:
			// subscriber too slow; drop rather than block the caller.
		}
	}
}
