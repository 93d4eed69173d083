package btrtile

import "github.com/tilecore/tilecore/internal/core/host"

// NodeSnapshot is the JSON-serializable mirror of one tree node, used
// by internal/store to persist a monitor's tree shape across process
// restarts. Parent links and arena indices are deliberately excluded:
// they're derived, not stored state (spec.md §5: "the tree plus the
// two toggles" is the complete observable state).
type NodeSnapshot struct {
	Kind          Kind          `json:"kind"`
	SplitVertical bool          `json:"split_vertical,omitempty"`
	Ratio         float64       `json:"ratio,omitempty"`
	Client        host.Client   `json:"client,omitempty"`
	Left          *NodeSnapshot `json:"left,omitempty"`
	Right         *NodeSnapshot `json:"right,omitempty"`
}

// TreeSnapshot is the JSON-serializable mirror of an entire Tree.
type TreeSnapshot struct {
	Monitor host.MonitorID `json:"monitor"`
	Root    *NodeSnapshot  `json:"root,omitempty"`
}

// Snapshot captures t's current shape for persistence.
func (t *Tree) Snapshot() TreeSnapshot {
	return TreeSnapshot{
		Monitor: t.monitor,
		Root:    t.snapshotNode(t.root),
	}
}

func (t *Tree) snapshotNode(id NodeID) *NodeSnapshot {
	if id == nilNode {
		return nil
	}
	n := t.get(id)
	if n.kind == KindClient {
		return &NodeSnapshot{Kind: KindClient, Client: n.client}
	}
	return &NodeSnapshot{
		Kind:          KindSplit,
		SplitVertical: n.splitVertical,
		Ratio:         n.ratio,
		Left:          t.snapshotNode(n.left),
		Right:         t.snapshotNode(n.right),
	}
}

// FromSnapshot rebuilds a Tree from a previously captured TreeSnapshot.
// Ratio and orientation are restored exactly as saved; arena indices
// and parent links are rebuilt fresh as the tree is reconstructed
// bottom-up.
func FromSnapshot(snap TreeSnapshot) *Tree {
	t := New(snap.Monitor)
	t.root = t.buildNode(snap.Root)
	return t
}

func (t *Tree) buildNode(snap *NodeSnapshot) NodeID {
	if snap == nil {
		return nilNode
	}
	if snap.Kind == KindClient {
		return t.newClientLeaf(snap.Client)
	}
	left := t.buildNode(snap.Left)
	right := t.buildNode(snap.Right)
	id := t.newSplit(snap.SplitVertical, left, right)
	t.get(id).ratio = clampRatio(snap.Ratio)
	return id
}
