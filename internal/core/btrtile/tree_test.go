package btrtile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/core/geom"
	"github.com/tilecore/tilecore/internal/core/host"
)

func TestNewTreeIsEmpty(t *testing.T) {
	tree := btrtile.New(host.MonitorID("M"))
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, host.MonitorID("M"), tree.Monitor())
}

func TestSetRatioClampsToRange(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newScenarioHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")
	h.AddClient(monitor, "C2")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)
	tree.InsertClient(h, "C1", "C2", toggles)

	root := tree.Root()
	tree.SetRatio(root, -5)
	assert.Equal(t, btrtile.MinRatio, tree.Ratio(root))

	tree.SetRatio(root, 5)
	assert.Equal(t, btrtile.MaxRatio, tree.Ratio(root))

	tree.SetRatio(root, 0.33)
	assert.Equal(t, 0.33, tree.Ratio(root))
}

// A removed node's arena slot is reused by the next allocation, so the
// arena never grows unboundedly under a steady map/unmap churn.
func TestFreelistReusesReleasedSlots(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newScenarioHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)

	for i := 0; i < 50; i++ {
		h.AddClient(monitor, "churn")
		tree.InsertClient(h, "C1", "churn", toggles)
		h.RemoveClient(monitor, "churn")
		tree.RemoveClient("churn")
	}

	assert.Equal(t, host.Client("C1"), tree.Client(tree.Root()))
	assert.True(t, tree.Kind(tree.Root()) == btrtile.KindClient)
	// Each cycle allocates two leaves and frees two slots; with reuse the
	// surviving leaf stays in one of the first few arena slots instead of
	// climbing to ~100 after 50 cycles.
	assert.Less(t, int(tree.Root()), 4)
}
