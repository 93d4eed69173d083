package ipc

import (
	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/util/sanitize"
)

// maxClientTextLen bounds how much of a client's title/app-id survives
// into a snapshot response; a misbehaving client has no reason to set
// a multi-kilobyte title.
const maxClientTextLen = 256

// SnapshotNode mirrors one btrtile.NodeSnapshot for JSON transport,
// with client-supplied text sanitized before it leaves the process.
type SnapshotNode struct {
	Kind        string        `json:"kind"`
	Orientation string        `json:"orientation,omitempty"`
	Ratio       float64       `json:"ratio,omitempty"`
	Client      string        `json:"client,omitempty"`
	Left        *SnapshotNode `json:"left,omitempty"`
	Right       *SnapshotNode `json:"right,omitempty"`
}

// Snapshot is the wire shape served by GET /snapshot/{monitor}.
type Snapshot struct {
	Monitor     string        `json:"monitor"`
	GeneratedAt string        `json:"generated_at"`
	Root        *SnapshotNode `json:"root,omitempty"`
}

// BuildSnapshot converts tree's current shape into its wire
// representation, stamped with generatedAt (an ISO-8601 string from
// internal/util/timefmt).
func BuildSnapshot(tree *btrtile.Tree, generatedAt string) Snapshot {
	snap := tree.Snapshot()
	return Snapshot{
		Monitor:     string(snap.Monitor),
		GeneratedAt: generatedAt,
		Root:        convertNode(snap.Root),
	}
}

func convertNode(n *btrtile.NodeSnapshot) *SnapshotNode {
	if n == nil {
		return nil
	}
	if n.Kind == btrtile.KindClient {
		return &SnapshotNode{
			Kind:   "client",
			Client: sanitize.ClientText(string(n.Client), maxClientTextLen),
		}
	}
	orientation := "horizontal"
	if n.SplitVertical {
		orientation = "vertical"
	}
	return &SnapshotNode{
		Kind:        "split",
		Orientation: orientation,
		Ratio:       n.Ratio,
		Left:        convertNode(n.Left),
		Right:       convertNode(n.Right),
	}
}
