package store_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/core/geom"
	"github.com/tilecore/tilecore/internal/core/host"
	"github.com/tilecore/tilecore/internal/demo"
	"github.com/tilecore/tilecore/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testHost(monitor host.MonitorID) *demo.Host {
	h := demo.New()
	h.AddMonitor(monitor, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080}, 0)
	return h
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)
	monitor := host.MonitorID("DP-1")
	h := testHost(monitor)
	h.AddClient(monitor, "alpha")

	tree := btrtile.New(monitor)
	toggles := &btrtile.Toggles{}
	tree.InsertClient(h, "", "alpha", toggles)

	savedToggles := btrtile.Toggles{SplitSide: true, ColPick: 3}
	require.NoError(t, store.SaveTree(db, tree, savedToggles))

	loaded, loadedToggles, err := store.LoadTree(db, monitor)
	require.NoError(t, err)
	assert.Equal(t, savedToggles, loadedToggles)
	assert.Equal(t, tree.Snapshot(), loaded.Snapshot())
}

func TestLoadUnknownMonitorReturnsEmptyTree(t *testing.T) {
	db := openTestDB(t)

	loaded, toggles, err := store.LoadTree(db, host.MonitorID("DP-9"))
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
	assert.Equal(t, btrtile.Toggles{}, toggles)
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	db := openTestDB(t)
	monitor := host.MonitorID("DP-1")
	h := testHost(monitor)
	h.AddClient(monitor, "alpha")
	h.AddClient(monitor, "beta")

	toggles := &btrtile.Toggles{}
	tree := btrtile.New(monitor)
	tree.InsertClient(h, "", "alpha", toggles)
	require.NoError(t, store.SaveTree(db, tree, *toggles))

	tree.InsertClient(h, "alpha", "beta", toggles)
	require.NoError(t, store.SaveTree(db, tree, btrtile.Toggles{ColPick: 1}))

	loaded, loadedToggles, err := store.LoadTree(db, monitor)
	require.NoError(t, err)
	assert.Equal(t, 1, loadedToggles.ColPick)
	assert.Equal(t, tree.Snapshot(), loaded.Snapshot())
}
