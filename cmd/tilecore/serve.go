package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/core/config"
	"github.com/tilecore/tilecore/internal/core/geom"
	"github.com/tilecore/tilecore/internal/core/host"
	"github.com/tilecore/tilecore/internal/core/metrics"
	"github.com/tilecore/tilecore/internal/demo"
	"github.com/tilecore/tilecore/internal/ipc"
	"github.com/tilecore/tilecore/internal/logging"
	"github.com/tilecore/tilecore/internal/store"
	"github.com/tilecore/tilecore/internal/util/validate"
)

// treeRegistry guards the set of live trees shared between the
// scripted arrange loop (the only writer) and the IPC server's HTTP
// handlers (readers running on arbitrary goroutines).
type treeRegistry struct {
	mu    sync.Mutex
	trees map[host.MonitorID]*btrtile.Tree
}

func newTreeRegistry() *treeRegistry {
	return &treeRegistry{trees: make(map[host.MonitorID]*btrtile.Tree)}
}

func (r *treeRegistry) set(m host.MonitorID, t *btrtile.Tree) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees[m] = t
}

func (r *treeRegistry) get(m host.MonitorID) *btrtile.Tree {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trees[m]
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file (optional)")
	showVersion := fs.Bool("version", false, "print version and exit")
	_ = fs.Parse(args)

	if *showVersion {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if lvl, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		logging.SetLevel(lvl)
	}

	logging.PrintBanner("serve", version, cfg.SocketPath())

	dataDir := validate.DataDir(cfg.DataDir)
	if dataDir == "" {
		return fmt.Errorf("invalid data dir %q: must be an absolute path with no traversal components", cfg.DataDir)
	}
	cfg.DataDir = dataDir
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	h := demo.New()
	registry := newTreeRegistry()

	const (
		monitorA = host.MonitorID("DP-1")
		monitorB = host.MonitorID("DP-2")
	)
	h.AddMonitor(monitorA, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080}, cfg.GapPX)
	h.AddMonitor(monitorB, geom.Box{X: 1920, Y: 0, Width: 2560, Height: 1440}, cfg.GapPX)
	for _, m := range []host.MonitorID{monitorA, monitorB} {
		h.SetAspectThresholds(m, cfg.AspectWideThreshold, cfg.AspectMediumThreshold)
	}

	for _, m := range []host.MonitorID{monitorA, monitorB} {
		tree, toggles, err := store.LoadTree(db, m)
		if err != nil {
			return fmt.Errorf("load tree for %s: %w", m, err)
		}
		registry.set(m, tree)
		slog.Info("loaded monitor state", "monitor", m, "toggles", toggles)
	}

	ipcServer := ipc.NewServer(registry.get)

	ln, err := listenUnix(cfg.SocketPath())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runScript(ctx, h, registry, ipcServer, db)
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- ipcServer.Serve(ln) }()

	slog.Info("tilecore listening", "socket", cfg.SocketPath())

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ipcServer.Shutdown(shutdownCtx)
		wg.Wait()
		return nil
	case err := <-errCh:
		stop()
		wg.Wait()
		return err
	}
}

func listenUnix(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(path, 0o600)
	return ln, nil
}

// runScript drives a small, deterministic client lifecycle on each
// monitor so the engine, metrics, persistence, and IPC surfaces are
// all exercised end-to-end without a real compositor attached. It
// exits when ctx is cancelled.
func runScript(ctx context.Context, h *demo.Host, registry *treeRegistry, notifier *ipc.Server, db *sql.DB) {
	monitors := h.MonitorIDs()
	toggles := make(map[host.MonitorID]*btrtile.Toggles, len(monitors))
	for _, m := range monitors {
		toggles[m] = &btrtile.Toggles{}
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	counters := make(map[host.MonitorID]int, len(monitors))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, m := range monitors {
				tree := registry.get(m)
				counters[m]++
				client := host.Client(fmt.Sprintf("%s-win-%d", m, counters[m]))
				clients := h.ClientsOn(m)

				if len(clients) >= 4 {
					victim := clients[0]
					h.RemoveClient(m, victim)
					tree.RemoveClient(victim)
					metrics.MutationsTotal.WithLabelValues(metrics.OpRemove).Inc()
				} else {
					focused := host.Client("")
					if len(clients) > 0 {
						focused = clients[len(clients)-1]
					}
					h.AddClient(m, client)
					tree.InsertClient(h, focused, client, toggles[m])
					metrics.MutationsTotal.WithLabelValues(metrics.OpInsert).Inc()
				}

				start := time.Now()
				tree.Arrange(h, toggles[m])
				metrics.ArrangeDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())
				metrics.Clients.WithLabelValues(string(m), metrics.StateTiled).Set(float64(len(h.ClientsOn(m))))

				if err := store.SaveTree(db, tree, *toggles[m]); err != nil {
					slog.Warn("persist tree failed", "monitor", m, "error", err)
				}

				notifier.RearrangeHappened(m)
			}
		}
	}
}
