package store

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/crypto/blake2b"

	"github.com/tilecore/tilecore/internal/core/btrtile"
	"github.com/tilecore/tilecore/internal/core/host"
	"github.com/tilecore/tilecore/internal/util/timefmt"
)

// SaveTree persists tree's current shape (gzip-compressed, with a
// blake2b-256 checksum over the uncompressed payload) and toggles,
// replacing any prior snapshot for the same monitor. The toggles are
// small enough to live in their own columns rather than inside the
// compressed blob.
func SaveTree(db *sql.DB, tree *btrtile.Tree, toggles btrtile.Toggles) error {
	raw, err := json.Marshal(tree.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	sum := blake2b.Sum256(raw)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	monitor := string(tree.Monitor())
	checksum := hex.EncodeToString(sum[:])
	updatedAt := timefmt.Format(time.Now())

	return withBusyRetry(func() error {
		_, err := db.Exec(`
			INSERT INTO snapshots (monitor, tree_gzip, checksum, split_side, col_pick, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(monitor) DO UPDATE SET
				tree_gzip = excluded.tree_gzip,
				checksum = excluded.checksum,
				split_side = excluded.split_side,
				col_pick = excluded.col_pick,
				updated_at = excluded.updated_at`,
			monitor, buf.Bytes(), checksum, boolToInt(toggles.SplitSide), toggles.ColPick, updatedAt)
		return err
	})
}

// LoadTree loads the persisted tree and toggles for monitor. If
// nothing has been persisted yet, it returns a fresh empty tree and
// zero-value toggles rather than an error: an unseen monitor is the
// common case on first boot.
func LoadTree(db *sql.DB, monitor host.MonitorID) (*btrtile.Tree, btrtile.Toggles, error) {
	var blob []byte
	var checksum string
	var splitSide, colPick int

	row := db.QueryRow(`SELECT tree_gzip, checksum, split_side, col_pick FROM snapshots WHERE monitor = ?`, string(monitor))
	switch err := row.Scan(&blob, &checksum, &splitSide, &colPick); {
	case err == sql.ErrNoRows:
		return btrtile.New(monitor), btrtile.Toggles{}, nil
	case err != nil:
		return nil, btrtile.Toggles{}, fmt.Errorf("load snapshot: %w", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, btrtile.Toggles{}, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer gz.Close()
	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, btrtile.Toggles{}, fmt.Errorf("decompress snapshot: %w", err)
	}

	sum := blake2b.Sum256(raw)
	if hex.EncodeToString(sum[:]) != checksum {
		return nil, btrtile.Toggles{}, fmt.Errorf("snapshot checksum mismatch for monitor %s", monitor)
	}

	var snap btrtile.TreeSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, btrtile.Toggles{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	toggles := btrtile.Toggles{SplitSide: splitSide != 0, ColPick: colPick}
	return btrtile.FromSnapshot(snap), toggles, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
