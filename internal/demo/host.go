// Package demo implements a synthetic host.Adapter backed entirely by
// in-memory state. It lets cmd/tilecore run a scripted layout without
// a real compositor, and gives the rest of the module a cheap,
// deterministic Adapter to test against.
package demo

import (
	"sort"

	"github.com/tilecore/tilecore/internal/core/geom"
	"github.com/tilecore/tilecore/internal/core/host"
)

type clientState struct {
	id         host.Client
	geometry   geom.Box
	floating   bool
	fullscreen bool
}

// defaultAspectWide and defaultAspectMedium mirror config.defaults()'s
// aspect_wide_threshold/aspect_medium_threshold so a monitor added
// without an explicit SetAspectThresholds call behaves like an
// unconfigured daemon.
const (
	defaultAspectWide   = 3.2
	defaultAspectMedium = 2.2
)

type monitorState struct {
	workArea     geom.Box
	gapPX        int
	aspectWide   float64
	aspectMedium float64
	order        []host.Client
	clients      map[host.Client]*clientState
}

// Host is a synthetic, in-memory implementation of host.Adapter. The
// zero value is not usable; construct with New.
type Host struct {
	monitors map[host.MonitorID]*monitorState
	resizes  []ResizeCall
}

// ResizeCall records one Resize invocation, so tests and the demo CLI
// can inspect exactly what the core asked the host to do.
type ResizeCall struct {
	Client host.Client
	Box    geom.Box
}

// New creates an empty synthetic host with no monitors.
func New() *Host {
	return &Host{monitors: make(map[host.MonitorID]*monitorState)}
}

// AddMonitor registers a monitor with the given work area and gap. Its
// aspect-ratio thresholds start at the daemon's built-in defaults; call
// SetAspectThresholds to match a non-default config.Tunables.
func (h *Host) AddMonitor(m host.MonitorID, workArea geom.Box, gapPX int) {
	h.monitors[m] = &monitorState{
		workArea:     workArea,
		gapPX:        gapPX,
		aspectWide:   defaultAspectWide,
		aspectMedium: defaultAspectMedium,
		clients:      make(map[host.Client]*clientState),
	}
}

// SetAspectThresholds overrides monitor m's aspect-ratio thresholds.
func (h *Host) SetAspectThresholds(m host.MonitorID, wide, medium float64) {
	mon := h.mustMonitor(m)
	mon.aspectWide, mon.aspectMedium = wide, medium
}

// AddClient adds c to monitor m's managed client list, tiled by
// default, in host iteration order (appended to the end).
func (h *Host) AddClient(m host.MonitorID, c host.Client) {
	mon := h.mustMonitor(m)
	if _, exists := mon.clients[c]; exists {
		return
	}
	mon.clients[c] = &clientState{id: c}
	mon.order = append(mon.order, c)
}

// RemoveClient drops c from monitor m entirely, as if it had been
// destroyed by the compositor.
func (h *Host) RemoveClient(m host.MonitorID, c host.Client) {
	mon := h.mustMonitor(m)
	delete(mon.clients, c)
	for i, id := range mon.order {
		if id == c {
			mon.order = append(mon.order[:i], mon.order[i+1:]...)
			break
		}
	}
}

// SetFloating toggles c's floating state.
func (h *Host) SetFloating(m host.MonitorID, c host.Client, floating bool) {
	h.mustClient(m, c).floating = floating
}

// SetFullscreen toggles c's fullscreen state.
func (h *Host) SetFullscreen(m host.MonitorID, c host.Client, fullscreen bool) {
	h.mustClient(m, c).fullscreen = fullscreen
}

// Resizes returns every Resize call recorded so far, in call order.
func (h *Host) Resizes() []ResizeCall { return h.resizes }

// ClearResizes discards recorded Resize calls (e.g. between arrange
// passes in a test, to assert only on the latest pass).
func (h *Host) ClearResizes() { h.resizes = nil }

func (h *Host) mustMonitor(m host.MonitorID) *monitorState {
	mon, ok := h.monitors[m]
	if !ok {
		mon = &monitorState{clients: make(map[host.Client]*clientState)}
		h.monitors[m] = mon
	}
	return mon
}

func (h *Host) mustClient(m host.MonitorID, c host.Client) *clientState {
	mon := h.mustMonitor(m)
	cs, ok := mon.clients[c]
	if !ok {
		cs = &clientState{id: c}
		mon.clients[c] = cs
	}
	return cs
}

// ClientsOn implements host.Adapter.
func (h *Host) ClientsOn(m host.MonitorID) []host.Client {
	mon, ok := h.monitors[m]
	if !ok {
		return nil
	}
	out := make([]host.Client, len(mon.order))
	copy(out, mon.order)
	return out
}

// VisibleOn implements host.Adapter. Every client the demo host knows
// about on m is considered visible: there is no tag/workspace model.
func (h *Host) VisibleOn(c host.Client, m host.MonitorID) bool {
	mon, ok := h.monitors[m]
	if !ok {
		return false
	}
	_, ok = mon.clients[c]
	return ok
}

// IsFloating implements host.Adapter.
func (h *Host) IsFloating(c host.Client) bool {
	cs := h.findClient(c)
	return cs != nil && cs.floating
}

// IsFullscreen implements host.Adapter.
func (h *Host) IsFullscreen(c host.Client) bool {
	cs := h.findClient(c)
	return cs != nil && cs.fullscreen
}

// Geometry implements host.Adapter.
func (h *Host) Geometry(c host.Client) geom.Box {
	if cs := h.findClient(c); cs != nil {
		return cs.geometry
	}
	return geom.Box{}
}

// Resize implements host.Adapter: it records the call and updates the
// client's tracked geometry so later Geometry/resize-controller calls
// see the placement just applied.
func (h *Host) Resize(c host.Client, box geom.Box) {
	h.resizes = append(h.resizes, ResizeCall{Client: c, Box: box})
	if cs := h.findClient(c); cs != nil {
		cs.geometry = box
	}
}

// WorkArea implements host.Adapter.
func (h *Host) WorkArea(m host.MonitorID) geom.Box {
	if mon, ok := h.monitors[m]; ok {
		return mon.workArea
	}
	return geom.Box{}
}

// GapPX implements host.Adapter.
func (h *Host) GapPX(m host.MonitorID) int {
	if mon, ok := h.monitors[m]; ok {
		return mon.gapPX
	}
	return 0
}

// AspectThresholds implements host.Adapter.
func (h *Host) AspectThresholds(m host.MonitorID) (wide, medium float64) {
	if mon, ok := h.monitors[m]; ok {
		return mon.aspectWide, mon.aspectMedium
	}
	return defaultAspectWide, defaultAspectMedium
}

// RequestRearrange implements host.Adapter as a no-op: the demo host
// has no event loop of its own, so callers (cmd/tilecore, tests) drive
// rearranges explicitly.
func (h *Host) RequestRearrange(host.MonitorID) {}

// ReorderClients implements host.Adapter.
func (h *Host) ReorderClients(m host.MonitorID, order []host.Client) {
	mon := h.mustMonitor(m)
	mon.order = append([]host.Client(nil), order...)
}

func (h *Host) findClient(c host.Client) *clientState {
	for _, mon := range h.monitors {
		if cs, ok := mon.clients[c]; ok {
			return cs
		}
	}
	return nil
}

// MonitorIDs returns every registered monitor, sorted for
// deterministic iteration.
func (h *Host) MonitorIDs() []host.MonitorID {
	out := make([]host.MonitorID, 0, len(h.monitors))
	for m := range h.monitors {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
