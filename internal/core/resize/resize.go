// Package resize implements interactive dual-axis resize: a pointer
// drag rides whichever ancestor splits best correspond to its motion,
// without requiring the user to grab a specific edge first. See
// spec.md §4.4.
package resize

import (
	"time"

	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/core/geom"
	"github.com/tilecore/tilecore/internal/core/host"
)

// Config holds the tunables that govern motion throttling and ratio
// clamping. Populated from internal/core/config.Tunables.
type Config struct {
	IntervalMS   int
	MinPixels    int
	RatioEpsilon float64
	Border       int
}

type axisState struct {
	split      btrtile.NodeID
	startRatio float64
	startBox   geom.Box
	resolved   bool
}

// Controller tracks one in-progress interactive resize. The core's
// event loop owns exactly one Controller per monitor and drives it
// synchronously from BeginResize through EndResize; per spec.md §5 no
// internal locking is needed because the event loop serializes all
// calls.
type Controller struct {
	cfg Config

	tree   *btrtile.Tree
	client host.Client

	active   bool
	floating bool

	startX, startY int
	vertical       axisState
	horizontal     axisState

	lastTime     time.Time
	lastX, lastY int

	dirX, dirY int
	floatStart geom.Box
}

// New creates a Controller with no session in progress.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// Active reports whether a resize session is currently in progress.
func (c *Controller) Active() bool { return c.active }

// BeginResize grabs client at pointer (px, py) and starts a resize
// session. Whether client is floating at grab time decides the whole
// session's code path; toggling floating state mid-drag has no effect
// until the next BeginResize.
func (c *Controller) BeginResize(a host.Adapter, tree *btrtile.Tree, client host.Client, px, py int) {
	floating := a.IsFloating(client)
	box := a.Geometry(client)

	*c = Controller{
		cfg:      c.cfg,
		tree:     tree,
		client:   client,
		active:   true,
		floating: floating,
		startX:   px,
		startY:   py,
		lastX:    px,
		lastY:    py,
	}

	if floating {
		c.floatStart = box
		c.dirX, c.dirY = PickResizeHandle(box, px, py)
	}
}

// OnMotion processes a pointer motion event at (px, py) observed at t.
// Events arriving faster than cfg.IntervalMS and moving less than
// cfg.MinPixels in both axes are dropped. Returns true if a ratio (or
// the floating client's box) changed, in which case the caller should
// request a rearrange.
func (c *Controller) OnMotion(a host.Adapter, px, py int, t time.Time) bool {
	if !c.active {
		return false
	}

	if !c.lastTime.IsZero() {
		elapsed := t.Sub(c.lastTime)
		movedX := absInt(px - c.lastX)
		movedY := absInt(py - c.lastY)
		if elapsed < time.Duration(c.cfg.IntervalMS)*time.Millisecond &&
			movedX < c.cfg.MinPixels && movedY < c.cfg.MinPixels {
			return false
		}
	}
	c.lastTime = t
	c.lastX, c.lastY = px, py

	if c.floating {
		return c.applyFloatingMotion(a, px, py)
	}
	return c.applyTiledMotion(a, px, py)
}

func (c *Controller) applyTiledMotion(a host.Adapter, px, py int) bool {
	leaf := c.tree.FindClientNode(c.tree.Root(), c.client)
	if leaf == 0 {
		return false
	}

	if !c.vertical.resolved {
		c.resolveAxis(a, leaf, true, px)
	}
	if !c.horizontal.resolved {
		c.resolveAxis(a, leaf, false, py)
	}

	changed := false
	if c.vertical.split != 0 && c.vertical.startBox.Width > 0 {
		ratio := clamp(c.vertical.startRatio+float64(px-c.startX)/float64(c.vertical.startBox.Width),
			btrtile.MinRatio, btrtile.MaxRatio)
		if absFloat(ratio-c.tree.Ratio(c.vertical.split)) >= c.cfg.RatioEpsilon {
			c.tree.SetRatio(c.vertical.split, ratio)
			changed = true
		}
	}
	if c.horizontal.split != 0 && c.horizontal.startBox.Height > 0 {
		ratio := clamp(c.horizontal.startRatio+float64(py-c.startY)/float64(c.horizontal.startBox.Height),
			btrtile.MinRatio, btrtile.MaxRatio)
		if absFloat(ratio-c.tree.Ratio(c.horizontal.split)) >= c.cfg.RatioEpsilon {
			c.tree.SetRatio(c.horizontal.split, ratio)
			changed = true
		}
	}
	return changed
}

// resolveAxis is closest_split_node, called lazily on the first motion
// event for each axis rather than at grab time, so a grab followed by
// a release with no motion never walks the tree.
func (c *Controller) resolveAxis(a host.Adapter, leaf btrtile.NodeID, vertical bool, pointerAxis int) {
	st := &c.horizontal
	if vertical {
		st = &c.vertical
	}
	st.resolved = true

	split, box, ok := ClosestSplitNode(a, c.tree, leaf, vertical, pointerAxis)
	if !ok {
		return
	}
	st.split = split
	st.startBox = box
	st.startRatio = c.tree.Ratio(split)
}

func (c *Controller) applyFloatingMotion(a host.Adapter, px, py int) bool {
	minSize := 1 + 2*c.cfg.Border
	box := c.floatStart
	dx := px - c.startX
	dy := py - c.startY

	switch c.dirX {
	case -1:
		box.X = c.floatStart.X + dx
		box.Width = c.floatStart.Width - dx
	case 1:
		box.Width = c.floatStart.Width + dx
	}
	switch c.dirY {
	case -1:
		box.Y = c.floatStart.Y + dy
		box.Height = c.floatStart.Height - dy
	case 1:
		box.Height = c.floatStart.Height + dy
	}

	if box.Width < minSize {
		if c.dirX == -1 {
			box.X -= minSize - box.Width
		}
		box.Width = minSize
	}
	if box.Height < minSize {
		if c.dirY == -1 {
			box.Y -= minSize - box.Height
		}
		box.Height = minSize
	}

	a.Resize(c.client, box)
	return true
}

// EndResize clears the active session without requesting a rearrange;
// the caller (the release-button handler) does that itself if the
// session's last OnMotion call returned true.
func (c *Controller) EndResize() {
	*c = Controller{cfg: c.cfg}
}

// ClosestSplitNode finds, among leaf's ancestors of the given
// orientation, the one whose current divider position is nearest
// pointerAxis (an x coordinate for a vertical split, a y coordinate
// for a horizontal one). ok is false if no ancestor of that
// orientation has a known bounding box (e.g. the client is alone on
// that axis).
func ClosestSplitNode(a host.Adapter, tree *btrtile.Tree, leaf btrtile.NodeID, vertical bool, pointerAxis int) (split btrtile.NodeID, box geom.Box, ok bool) {
	bestDist := -1

	n := tree.Parent(leaf)
	for n != 0 {
		if tree.SplitVertical(n) == vertical {
			if b, has := tree.BoundingBox(a, n); has {
				var divider int
				if vertical {
					divider = b.X + int(float64(b.Width)*tree.Ratio(n))
				} else {
					divider = b.Y + int(float64(b.Height)*tree.Ratio(n))
				}
				dist := absInt(divider - pointerAxis)
				if bestDist == -1 || dist < bestDist {
					bestDist = dist
					split = n
					box = b
					ok = true
				}
			}
		}
		n = tree.Parent(n)
	}
	return split, box, ok
}

// PickResizeHandle decides which edges of box a grab at (px, py)
// controls. dirX/dirY ∈ {-1, 0, +1} meaning left/none/right and
// top/none/bottom respectively. Both are set when the grab falls
// within a corner threshold of a corner; otherwise only the axis
// closer to an edge is set.
func PickResizeHandle(box geom.Box, px, py int) (dirX, dirY int) {
	leftDist := px - box.X
	rightDist := box.X + box.Width - px
	topDist := py - box.Y
	bottomDist := box.Y + box.Height - py

	threshold := min(24, min(box.Width, box.Height)/3)

	hDist, hDir := leftDist, -1
	if rightDist < leftDist {
		hDist, hDir = rightDist, 1
	}
	vDist, vDir := topDist, -1
	if bottomDist < topDist {
		vDist, vDir = bottomDist, 1
	}

	if hDist <= threshold && vDist <= threshold {
		return hDir, vDir
	}
	if hDist <= vDist {
		return hDir, 0
	}
	return 0, vDir
}

// SetRatioV adjusts the nearest vertical ancestor split of focused's
// leaf by delta (delta == 0 resets the ratio to 0.5) and requests a
// rearrange.
func SetRatioV(a host.Adapter, tree *btrtile.Tree, focused host.Client, delta float64) {
	setRatio(a, tree, focused, true, delta)
}

// SetRatioH is SetRatioV's horizontal-split counterpart.
func SetRatioH(a host.Adapter, tree *btrtile.Tree, focused host.Client, delta float64) {
	setRatio(a, tree, focused, false, delta)
}

func setRatio(a host.Adapter, tree *btrtile.Tree, focused host.Client, vertical bool, delta float64) {
	leaf := tree.FindClientNode(tree.Root(), focused)
	if leaf == 0 {
		return
	}
	split := tree.FindSuitableSplit(a, leaf, vertical)
	if split == 0 {
		return
	}
	if delta == 0 {
		tree.SetRatio(split, 0.5)
	} else {
		tree.SetRatio(split, tree.Ratio(split)+delta)
	}
	a.RequestRearrange(tree.Monitor())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
