// Package host defines the narrow contract between the tiling core and
// the compositor that embeds it. The core never inspects client
// contents — it only asks the Adapter for visibility/state/geometry and
// tells it where to place things.
package host

import "github.com/tilecore/tilecore/internal/core/geom"

// Client is an opaque, host-owned identity for a managed surface. The
// core treats it as a comparable value and never interprets it.
type Client string

// MonitorID is an opaque, host-owned identity for an output.
type MonitorID string

// Adapter is the set of calls the core makes into the host. It must be
// safe to call synchronously from the core's single event-loop thread;
// none of these calls may block on I/O.
type Adapter interface {
	// ClientsOn returns every client the host currently manages on m, in
	// host iteration order (tiling order).
	ClientsOn(m MonitorID) []Client

	// VisibleOn reports whether c is visible on m (e.g. shares an active
	// tag/workspace with it).
	VisibleOn(c Client, m MonitorID) bool

	// IsFloating reports whether c is floating (excluded from tiling).
	IsFloating(c Client) bool

	// IsFullscreen reports whether c is fullscreen (excluded from tiling).
	IsFullscreen(c Client) bool

	// Geometry returns c's last-known placed geometry.
	Geometry(c Client) geom.Box

	// Resize places c at box. The core calls this once per visible tiled
	// leaf on every arrange pass.
	Resize(c Client, box geom.Box)

	// WorkArea returns m's usable rectangle (output minus exclusive
	// layer-shell zones and bars).
	WorkArea(m MonitorID) geom.Box

	// GapPX returns the configured gap size for m, or 0 if gaps are
	// disabled.
	GapPX(m MonitorID) int

	// AspectThresholds returns the configured work-area aspect-ratio
	// thresholds for m that TargetColumns uses to pick a column count
	// (spec.md §4.5): wide is the ratio at or above which 4 columns are
	// targeted, medium the ratio at or above which 3 are targeted.
	AspectThresholds(m MonitorID) (wide, medium float64)

	// RequestRearrange schedules a fresh arrange pass for m. Used by
	// setters (ratio adjustments) that mutate the tree outside of a
	// pointer-motion callback, where the caller is expected to trigger
	// the rearrange itself once the motion settles.
	RequestRearrange(m MonitorID)

	// ReorderClients asks the host to adopt order as its new iteration
	// order for m's clients. The core never reorders its own tree in
	// response to rotation; it only asks the host to re-sort, then
	// relies on the next arrange to reflect the new order downstream
	// (first_visible_client and friends read host order indirectly via
	// ClientsOn, not via tree shape).
	ReorderClients(m MonitorID, order []Client)
}

// FocusSink receives "rearrange happened" notifications so external
// collaborators (status bar, overlay) can refresh their view of the
// layout without polling.
type FocusSink interface {
	RearrangeHappened(m MonitorID)
}
