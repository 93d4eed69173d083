package resize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/core/geom"
	"github.com/tilecore/tilecore/internal/core/host"
	"github.com/tilecore/tilecore/internal/core/resize"
	"github.com/tilecore/tilecore/internal/demo"
)

func newResizeHost(monitor host.MonitorID, workArea geom.Box) *demo.Host {
	h := demo.New()
	h.AddMonitor(monitor, workArea, 0)
	return h
}

func testConfig() resize.Config {
	return resize.Config{
		IntervalMS:   0,
		MinPixels:    0,
		RatioEpsilon: 0.0001,
		Border:       2,
	}
}

// Scenario G — a vertical-split drag of +200px on a 1920-wide ancestor
// lands the ratio at clamp(0.5 + 200/1920, 0.05, 0.95).
func TestScenarioGResizeDrag(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")
	h.AddClient(monitor, "C2")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)
	tree.InsertClient(h, "C1", "C2", toggles)
	tree.Arrange(h, toggles)

	c := resize.New(testConfig())
	c.BeginResize(h, tree, "C1", 480, 540)
	changed := c.OnMotion(h, 680, 540, time.Now())

	require.True(t, changed)
	assert.InDelta(t, 0.604166, tree.Ratio(tree.Root()), 0.0001)
}

func TestBeginResizeThenActiveReportsTrue(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)
	tree.Arrange(h, toggles)

	c := resize.New(testConfig())
	assert.False(t, c.Active())
	c.BeginResize(h, tree, "C1", 10, 10)
	assert.True(t, c.Active())
}

func TestEndResizeClearsSessionAndSilencesMotion(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")
	h.AddClient(monitor, "C2")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)
	tree.InsertClient(h, "C1", "C2", toggles)
	tree.Arrange(h, toggles)

	c := resize.New(testConfig())
	c.BeginResize(h, tree, "C1", 480, 540)
	c.EndResize()

	assert.False(t, c.Active())
	changed := c.OnMotion(h, 900, 540, time.Now())
	assert.False(t, changed)
}

func TestOnMotionThrottlesSlowSmallMoves(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")
	h.AddClient(monitor, "C2")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)
	tree.InsertClient(h, "C1", "C2", toggles)
	tree.Arrange(h, toggles)

	cfg := testConfig()
	cfg.IntervalMS = 1000
	cfg.MinPixels = 50
	c := resize.New(cfg)
	c.BeginResize(h, tree, "C1", 480, 540)

	base := time.Now()
	require.True(t, c.OnMotion(h, 680, 540, base))

	ratioAfterFirst := tree.Ratio(tree.Root())
	changed := c.OnMotion(h, 690, 540, base.Add(10*time.Millisecond))

	assert.False(t, changed)
	assert.Equal(t, ratioAfterFirst, tree.Ratio(tree.Root()))
}

func TestApplyFloatingMotionResizesFromGrabbedEdge(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "F1")
	h.SetFloating(monitor, "F1", true)
	box := geom.Box{X: 100, Y: 100, Width: 200, Height: 150}
	h.Resize("F1", box)

	c := resize.New(testConfig())
	c.BeginResize(h, nil, "F1", 300, 175)
	changed := c.OnMotion(h, 350, 175, time.Now())

	require.True(t, changed)
	require.Len(t, h.Resizes(), 2) // the setup Resize plus the motion's Resize
	got := h.Resizes()[len(h.Resizes())-1].Box
	assert.Equal(t, geom.Box{X: 100, Y: 100, Width: 250, Height: 150}, got)
}

func TestApplyFloatingMotionClampsBelowMinimumSize(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "F1")
	h.SetFloating(monitor, "F1", true)
	box := geom.Box{X: 100, Y: 100, Width: 200, Height: 150}
	h.Resize("F1", box)

	c := resize.New(testConfig())
	// Grab the right edge, then drag far enough left to collapse the width.
	c.BeginResize(h, nil, "F1", 300, 175)
	c.OnMotion(h, 50, 175, time.Now())

	got := h.Resizes()[len(h.Resizes())-1].Box
	minSize := 1 + 2*2
	assert.Equal(t, minSize, got.Width)
}

func TestPickResizeHandleCornerGrabSetsBothAxes(t *testing.T) {
	box := geom.Box{X: 0, Y: 0, Width: 200, Height: 200}
	dirX, dirY := resize.PickResizeHandle(box, 2, 2)
	assert.Equal(t, -1, dirX)
	assert.Equal(t, -1, dirY)
}

func TestPickResizeHandleEdgeGrabSetsOneAxis(t *testing.T) {
	box := geom.Box{X: 0, Y: 0, Width: 200, Height: 200}
	dirX, dirY := resize.PickResizeHandle(box, 199, 100)
	assert.Equal(t, 1, dirX)
	assert.Equal(t, 0, dirY)
}

func TestClosestSplitNodeNoAncestorOfOrientation(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")
	h.AddClient(monitor, "C2")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)
	tree.InsertClient(h, "C1", "C2", toggles)
	tree.Arrange(h, toggles)

	leaf := tree.FindClientNode(tree.Root(), "C1")
	_, _, ok := resize.ClosestSplitNode(h, tree, leaf, false, 540)
	assert.False(t, ok)
}

func TestSetRatioVResetsToHalfOnZeroDelta(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")
	h.AddClient(monitor, "C2")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)
	tree.InsertClient(h, "C1", "C2", toggles)
	tree.SetRatio(tree.Root(), 0.75)

	resize.SetRatioV(h, tree, "C1", 0)
	assert.Equal(t, 0.5, tree.Ratio(tree.Root()))
}

func TestSetRatioHNoOpWhenNoSuitableSplit(t *testing.T) {
	monitor := host.MonitorID("M")
	h := newResizeHost(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	h.AddClient(monitor, "C1")
	h.AddClient(monitor, "C2")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "C1", toggles)
	tree.InsertClient(h, "C1", "C2", toggles)

	before := tree.Ratio(tree.Root())
	resize.SetRatioH(h, tree, "C1", 0.1)
	assert.Equal(t, before, tree.Ratio(tree.Root()))
}
