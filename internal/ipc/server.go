// Package ipc is tilecore's local, read-only IPC surface: a snapshot
// endpoint for status bars and tooling, a websocket event stream, and
// Prometheus metrics. It listens over cleartext HTTP/2 (h2c) since it
// only ever serves a loopback TCP port or a unix socket, never a
// public network.
package ipc

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/core/host"
	"github.com/tilecore/tilecore/internal/util/timefmt"
	"github.com/tilecore/tilecore/internal/util/validate"
)

// TreeSource resolves a monitor to its live tree, or nil if the core
// doesn't know that monitor.
type TreeSource func(m host.MonitorID) *btrtile.Tree

// Server hosts tilecore's IPC endpoints. Its zero value is not usable;
// construct with NewServer.
type Server struct {
	trees      TreeSource
	httpServer *http.Server

	mu          sync.Mutex
	subscribers map[string]chan []byte
}

// NewServer wires the snapshot, events, and metrics routes behind an
// h2c handler, mirroring the hub's h2c-over-ServeMux wiring.
func NewServer(trees TreeSource) *Server {
	s := &Server{
		trees:       trees,
		subscribers: make(map[string]chan []byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot/", s.handleSnapshot)
	mux.HandleFunc("/events", s.handleEvents)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Handler: h2c.NewHandler(loggingMiddleware(mux), &http2.Server{
			MaxConcurrentStreams: 250,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Serve blocks, accepting connections on l until the server is shut
// down or l is closed.
func (s *Server) Serve(l net.Listener) error {
	return s.httpServer.Serve(l)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/snapshot/")
	monitor, err := validate.MonitorID(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tree := s.trees(host.MonitorID(monitor))
	if tree == nil {
		http.NotFound(w, r)
		return
	}

	snap := BuildSnapshot(tree, timefmt.Format(time.Now()))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
