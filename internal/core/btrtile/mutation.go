package btrtile

import "github.com/tilecore/tilecore/internal/core/host"

// Direction is a cardinal direction used by SwapAdjacent.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// RotateDirection is the argument to RotateClients: +1 moves the first
// client to the end, -1 moves the last client to the front.
type RotateDirection int

const (
	RotateForward  RotateDirection = 1
	RotateBackward RotateDirection = -1
)

// InsertClient inserts newClient into the tree. focused is the
// currently-focused client, used both as the default insertion target
// and as pickTargetClient's fallback. toggles carries the process-wide
// tie-breaking state across calls.
func (t *Tree) InsertClient(a host.Adapter, focused, newClient host.Client, toggles *Toggles) {
	target := focused
	if target == "" || target == newClient {
		target = t.pickTargetClient(a, focused, toggles)
	}

	if t.root == nilNode {
		t.root = t.newClientLeaf(newClient)
		return
	}

	targetNode := t.FindClientNode(t.root, target)
	if targetNode == nilNode {
		oldRoot := t.root
		newLeaf := t.newClientLeaf(newClient)
		t.root = t.newSplit(true, oldRoot, newLeaf)
		return
	}

	t.convertToSplit(a, targetNode, newClient, toggles)
}

// convertToSplit performs the in-place client-leaf-to-split conversion
// described in spec.md §4.3: targetNode keeps its arena slot and
// parent link, but becomes a split holding two fresh client leaves.
func (t *Tree) convertToSplit(a host.Adapter, targetNode NodeID, newClient host.Client, toggles *Toggles) {
	oldClient := t.get(targetNode).client

	box := a.Geometry(oldClient)
	wider := box.Width >= box.Height
	wa := a.WorkArea(t.monitor)
	wideThreshold, mediumThreshold := a.AspectThresholds(t.monitor)
	if t.CountColumns(t.root) < TargetColumns(wa.Width, wa.Height, wideThreshold, mediumThreshold) {
		wider = true
	}

	// Allocate before touching the target node again: alloc may grow
	// the arena and relocate it, so any pointer obtained before this
	// point would go stale.
	oldLeaf := t.newClientLeaf(oldClient)
	newLeaf := t.newClientLeaf(newClient)

	oldCount := t.VisibleCount(a, oldLeaf)
	newCount := t.VisibleCount(a, newLeaf)

	var left, right NodeID
	switch {
	case oldCount > newCount:
		left, right = newLeaf, oldLeaf
	case newCount > oldCount:
		left, right = oldLeaf, newLeaf
	default:
		if toggles.SplitSide {
			left, right = newLeaf, oldLeaf
		} else {
			left, right = oldLeaf, newLeaf
		}
		toggles.SplitSide = !toggles.SplitSide
	}

	n := t.get(targetNode)
	n.kind = KindSplit
	n.splitVertical = wider
	n.ratio = 0.5
	n.client = ""
	n.left = left
	n.right = right
	t.get(left).parent = targetNode
	t.get(right).parent = targetNode
}

// RemoveClient deletes c from the tree, lifting the surviving sibling
// of any split left with exactly one child so that no unary splits
// remain (spec.md §4.3, "Removal").
func (t *Tree) RemoveClient(c host.Client) {
	t.root = t.removeRec(t.root, c)
}

func (t *Tree) removeRec(id NodeID, c host.Client) NodeID {
	if id == nilNode {
		return nilNode
	}
	n := t.get(id)
	if n.kind == KindClient {
		if n.client == c {
			t.release(id)
			return nilNode
		}
		return id
	}

	n.left = t.removeRec(n.left, c)
	n.right = t.removeRec(n.right, c)

	switch {
	case n.left == nilNode && n.right == nilNode:
		return id
	case n.right == nilNode:
		survivor := n.left
		t.get(survivor).parent = n.parent
		t.release(id)
		return survivor
	case n.left == nilNode:
		survivor := n.right
		t.get(survivor).parent = n.parent
		t.release(id)
		return survivor
	default:
		return id
	}
}

// Reconcile prunes any client leaves whose client is no longer present
// in the host's authoritative list for this monitor (host.ClientsOn).
// It is defensive bookkeeping for clients that disappeared without a
// matching RemoveClient call; Arrange runs it before every placement
// pass. If toggles is non-nil, any host client not yet present anywhere
// in the tree is inserted via InsertClient; a nil toggles only prunes.
func (t *Tree) Reconcile(a host.Adapter, toggles *Toggles) {
	known := a.ClientsOn(t.monitor)
	present := make(map[host.Client]bool, len(known))
	for _, c := range known {
		present[c] = true
	}

	for _, c := range t.allClients() {
		if !present[c] {
			t.RemoveClient(c)
		}
	}

	if toggles == nil {
		return
	}
	var focused host.Client
	if len(known) > 0 {
		focused = known[0]
	}
	for _, c := range known {
		if t.FindClientNode(t.root, c) == nilNode {
			t.InsertClient(a, focused, c, toggles)
			focused = c
		}
	}
}

func (t *Tree) allClients() []host.Client {
	var out []host.Client
	var walk func(NodeID)
	walk = func(id NodeID) {
		if id == nilNode {
			return
		}
		n := t.get(id)
		if n.kind == KindClient {
			out = append(out, n.client)
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// SwapAdjacent swaps sel's client identity with the nearest visible
// tiled client strictly in dir from sel's geometric center, by
// Manhattan distance. Tree shape and ratios are untouched; only the
// two leaves' client fields trade places.
func (t *Tree) SwapAdjacent(a host.Adapter, sel host.Client, dir Direction) {
	if t.root == nilNode || sel == "" {
		return
	}
	selBox := a.Geometry(sel)
	sx, sy := selBox.CenterX(), selBox.CenterY()

	var best host.Client
	bestDist := -1

	for _, c := range a.ClientsOn(t.monitor) {
		if c == sel || !isPlaceable(a, t.monitor, c) {
			continue
		}
		box := a.Geometry(c)
		cx, cy := box.CenterX(), box.CenterY()
		if !inDirection(dir, sx, sy, cx, cy) {
			continue
		}
		dist := absInt(cx-sx) + absInt(cy-sy)
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = c
		}
	}

	if best == "" {
		return
	}

	selNode := t.FindClientNode(t.root, sel)
	bestNode := t.FindClientNode(t.root, best)
	if selNode == nilNode || bestNode == nilNode {
		return
	}
	t.get(selNode).client, t.get(bestNode).client = best, sel
}

func inDirection(dir Direction, sx, sy, cx, cy int) bool {
	switch dir {
	case DirLeft:
		return cx < sx
	case DirRight:
		return cx > sx
	case DirUp:
		return cy < sy
	case DirDown:
		return cy > sy
	default:
		return false
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// RotateClients rotates the host's visible-tiled-client iteration order
// by one position and asks the host to adopt the new order. The tree
// itself is untouched; the next Arrange reflects the new order via
// host.ClientsOn.
func RotateClients(a host.Adapter, m host.MonitorID, dir RotateDirection) {
	all := a.ClientsOn(m)
	var order []int
	var tiled []host.Client
	for i, c := range all {
		if isPlaceable(a, m, c) {
			order = append(order, i)
			tiled = append(tiled, c)
		}
	}
	if len(tiled) < 2 {
		return
	}

	rotated := make([]host.Client, len(tiled))
	switch dir {
	case RotateForward:
		copy(rotated, tiled[1:])
		rotated[len(rotated)-1] = tiled[0]
	default:
		copy(rotated[1:], tiled[:len(tiled)-1])
		rotated[0] = tiled[len(tiled)-1]
	}

	out := make([]host.Client, len(all))
	copy(out, all)
	for i, idx := range order {
		out[idx] = rotated[i]
	}
	a.ReorderClients(m, out)
}
