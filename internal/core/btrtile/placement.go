package btrtile

import (
	"github.com/tilecore/tilecore/internal/core/geom"
	"github.com/tilecore/tilecore/internal/core/host"
)

// Arrange reconciles the tree with the host's current client list (see
// Reconcile) — pruning stale leaves and inserting any host client not
// yet in the tree — and then places every visible tiled client by
// calling a.Resize once per placed leaf. It is the entry point called
// after any focus/map/unmap/tag/monitor/layout event. toggles carries
// the process-wide tie-breaking state used if Reconcile needs to
// insert a newly-eligible client.
func (t *Tree) Arrange(a host.Adapter, toggles *Toggles) {
	t.Reconcile(a, toggles)
	if t.root == nilNode {
		return
	}
	area := a.WorkArea(t.monitor)
	t.applyLayout(a, t.root, area, true)
}

// applyLayout is the recursive geometry assignment described in
// spec.md §4.1. It never mutates the tree.
func (t *Tree) applyLayout(a host.Adapter, id NodeID, area geom.Box, isRoot bool) {
	if id == nilNode {
		return
	}

	gap := a.GapPX(t.monitor)
	if isRoot && gap > 0 {
		area = area.Shrink(gap)
	}

	n := t.get(id)
	if n.kind == KindClient {
		if !isPlaceable(a, t.monitor, n.client) {
			return
		}
		a.Resize(n.client, area)
		return
	}

	leftCount := t.VisibleCount(a, n.left)
	rightCount := t.VisibleCount(a, n.right)

	switch {
	case leftCount == 0 && rightCount == 0:
		return
	case rightCount == 0:
		// Left subtree collapses into the full area for this frame; the
		// tree itself is untouched.
		t.applyLayout(a, n.left, area, false)
		return
	case leftCount == 0:
		t.applyLayout(a, n.right, area, false)
		return
	}

	ratio := clampRatio(n.ratio)
	var leftArea, rightArea geom.Box

	if n.splitVertical {
		mid := int(float64(area.Width) * ratio)
		leftArea = geom.Box{X: area.X, Y: area.Y, Width: mid, Height: area.Height}
		rightArea = geom.Box{X: area.X + mid, Y: area.Y, Width: area.Width - mid, Height: area.Height}
		if gap > 0 {
			leftArea.Width -= gap / 2
			rightArea.X += gap / 2
			rightArea.Width -= gap / 2
		}
	} else {
		mid := int(float64(area.Height) * ratio)
		leftArea = geom.Box{X: area.X, Y: area.Y, Width: area.Width, Height: mid}
		rightArea = geom.Box{X: area.X, Y: area.Y + mid, Width: area.Width, Height: area.Height - mid}
		if gap > 0 {
			leftArea.Height -= gap / 2
			rightArea.Y += gap / 2
			rightArea.Height -= gap / 2
		}
	}

	t.applyLayout(a, n.left, leftArea, false)
	t.applyLayout(a, n.right, rightArea, false)
}

// BoundingBox computes the union of the current geometry (per
// a.Geometry) of every visible tiled leaf under id. Used by the resize
// controller to find the pixel rectangle an ancestor split's subtree
// currently occupies. Returns a zero Box and false if id has no visible
// leaves.
func (t *Tree) BoundingBox(a host.Adapter, id NodeID) (geom.Box, bool) {
	if id == nilNode {
		return geom.Box{}, false
	}
	n := t.get(id)
	if n.kind == KindClient {
		if !isPlaceable(a, t.monitor, n.client) {
			return geom.Box{}, false
		}
		return a.Geometry(n.client), true
	}

	lb, lok := t.BoundingBox(a, n.left)
	rb, rok := t.BoundingBox(a, n.right)
	switch {
	case lok && rok:
		return unionBox(lb, rb), true
	case lok:
		return lb, true
	case rok:
		return rb, true
	default:
		return geom.Box{}, false
	}
}

func unionBox(a, b geom.Box) geom.Box {
	x0 := min(a.X, b.X)
	y0 := min(a.Y, b.Y)
	x1 := max(a.X+a.Width, b.X+b.Width)
	y1 := max(a.Y+a.Height, b.Y+b.Height)
	return geom.Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
