package store

import (
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// withBusyRetry runs op, retrying with exponential backoff while
// SQLite reports the database as locked/busy. A single daemon process
// serializes its own writes (db.SetMaxOpenConns(1) in Open), so this
// guards only against contention from an external process sharing the
// same data directory (e.g. a second tilecore instance mid-handoff).
func withBusyRetry(op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.Reset()

	const maxElapsed = 2 * time.Second
	start := time.Now()
	for {
		err := op()
		if err == nil || !isBusy(err) {
			return err
		}
		wait := b.NextBackOff()
		if wait == backoff.Stop || time.Since(start)+wait > maxElapsed {
			return err
		}
		time.Sleep(wait)
	}
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
