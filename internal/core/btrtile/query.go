package btrtile

import "github.com/tilecore/tilecore/internal/core/host"

// VisibleCount returns the number of leaves under id whose client is
// currently tiled (not floating, not fullscreen) and visible on the
// tree's monitor. A client leaf contributes 0 or 1; a split node sums
// its children.
func (t *Tree) VisibleCount(a host.Adapter, id NodeID) int {
	if id == nilNode {
		return 0
	}
	n := t.get(id)
	if n.kind == KindClient {
		if isPlaceable(a, t.monitor, n.client) {
			return 1
		}
		return 0
	}
	return t.VisibleCount(a, n.left) + t.VisibleCount(a, n.right)
}

// PlacementCount is an alias of VisibleCount. The two names exist in
// the source material for historical reasons and are defined to have
// identical semantics (spec.md §4.2); keeping both names lets callers
// that think in terms of "what will apply_layout actually place" read
// naturally alongside callers that think in terms of "what's visible".
func (t *Tree) PlacementCount(a host.Adapter, id NodeID) int {
	return t.VisibleCount(a, id)
}

func isPlaceable(a host.Adapter, m host.MonitorID, c host.Client) bool {
	return a.VisibleOn(c, m) && !a.IsFloating(c) && !a.IsFullscreen(c)
}

// FindClientNode searches for c by depth-first, left-before-right
// traversal starting at id. Returns the null NodeID if c is not in this
// subtree.
func (t *Tree) FindClientNode(id NodeID, c host.Client) NodeID {
	if id == nilNode {
		return nilNode
	}
	n := t.get(id)
	if n.kind == KindClient {
		if n.client == c {
			return id
		}
		return nilNode
	}
	if found := t.FindClientNode(n.left, c); found != nilNode {
		return found
	}
	return t.FindClientNode(n.right, c)
}

// CountColumns returns the tree's horizontal column count: a client
// leaf counts as 1; a vertical split sums its children; a horizontal
// split takes the max of its children. This is independent of
// visibility — it describes tree shape, not what is currently placed.
func (t *Tree) CountColumns(id NodeID) int {
	if id == nilNode {
		return 0
	}
	n := t.get(id)
	if n.kind == KindClient {
		return 1
	}
	left := t.CountColumns(n.left)
	right := t.CountColumns(n.right)
	if n.splitVertical {
		return left + right
	}
	return max(left, right)
}

// TargetColumns is the aspect policy: the column count the layout
// should reach for a monitor with the given work-area width/height, per
// spec.md §4.5. wideThreshold and mediumThreshold are the configured
// aspect-ratio cutoffs for 4 and 3 columns respectively
// (config.Tunables.AspectWideThreshold/AspectMediumThreshold).
func TargetColumns(workWidth, workHeight int, wideThreshold, mediumThreshold float64) int {
	if workHeight == 0 {
		return 2
	}
	ratio := float64(workWidth) / float64(workHeight)
	switch {
	case ratio >= wideThreshold:
		return 4
	case ratio >= mediumThreshold:
		return 3
	default:
		return 2
	}
}

// FindSuitableSplit walks parent links upward from start (jumping to
// start's parent first if start is itself a client leaf) and returns
// the nearest ancestor split whose orientation matches needVertical and
// whose left and right subtrees both have at least one visible client.
// Returns the null NodeID if none qualifies.
func (t *Tree) FindSuitableSplit(a host.Adapter, start NodeID, needVertical bool) NodeID {
	n := start
	if n != nilNode && t.get(n).kind == KindClient {
		n = t.get(n).parent
	}
	for n != nilNode {
		nd := t.get(n)
		if nd.kind == KindSplit && nd.splitVertical == needVertical &&
			t.VisibleCount(a, nd.left) > 0 && t.VisibleCount(a, nd.right) > 0 {
			return n
		}
		n = nd.parent
	}
	return nilNode
}

// firstVisibleClient returns the first (DFS, left-before-right) client
// under id that is visible and tiled, or "" if none.
func (t *Tree) firstVisibleClient(a host.Adapter, id NodeID) host.Client {
	if id == nilNode {
		return ""
	}
	n := t.get(id)
	if n.kind == KindClient {
		if isPlaceable(a, t.monitor, n.client) {
			return n.client
		}
		return ""
	}
	if c := t.firstVisibleClient(a, n.left); c != "" {
		return c
	}
	return t.firstVisibleClient(a, n.right)
}

// column is one entry in an enumeration of the tree's columns: a
// maximal non-vertically-split subtree, together with its placement
// count and a representative client (its leftmost visible leaf).
type column struct {
	node           NodeID
	placementCount int
	representative host.Client
}

// collectColumns enumerates id's columns: traversing only vertical
// splits downward, a column is any non-vertical subtree root (a
// horizontal split or a client leaf).
func (t *Tree) collectColumns(a host.Adapter, id NodeID, out []column) []column {
	if id == nilNode {
		return out
	}
	n := t.get(id)
	if n.kind == KindClient || !n.splitVertical {
		pc := t.PlacementCount(a, id)
		if pc == 0 {
			return out
		}
		return append(out, column{
			node:           id,
			placementCount: pc,
			representative: t.firstVisibleClient(a, id),
		})
	}
	out = t.collectColumns(a, n.left, out)
	out = t.collectColumns(a, n.right, out)
	return out
}

// pickTargetClient picks the insertion target: the representative
// client of the least-loaded column, rotating among ties via
// toggles.ColPick so repeated insertions spread deterministically
// across equally-loaded columns. Falls back to any visible client, and
// finally to focused (which may itself be empty).
func (t *Tree) pickTargetClient(a host.Adapter, focused host.Client, toggles *Toggles) host.Client {
	if t.root == nilNode {
		return focused
	}

	cols := t.collectColumns(a, t.root, nil)
	minCount := -1
	var tied []int
	for i, c := range cols {
		switch {
		case minCount == -1 || c.placementCount < minCount:
			minCount = c.placementCount
			tied = tied[:0]
			tied = append(tied, i)
		case c.placementCount == minCount:
			tied = append(tied, i)
		}
	}

	if len(tied) > 0 {
		start := toggles.ColPick % len(tied)
		for offset := 0; offset < len(tied); offset++ {
			pick := cols[tied[(start+offset)%len(tied)]]
			if pick.representative != "" {
				toggles.ColPick++
				return pick.representative
			}
		}
	}

	if c := t.firstVisibleClient(a, t.root); c != "" {
		return c
	}
	return focused
}
