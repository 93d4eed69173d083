// Package validate holds the small set of input-shape checks applied
// at tilecore's boundaries: monitor identifiers arriving from IPC
// requests and filesystem paths arriving from configuration.
package validate

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var monitorIDPattern = regexp.MustCompile(`^[a-zA-Z0-9 _\-.]+$`)

// MonitorID validates a monitor identifier as it arrives over IPC
// (e.g. the {monitor} path segment of GET /snapshot/{monitor}).
// Rules: trimmed non-empty, max 64 chars, only [a-zA-Z0-9 _\-.] — the
// same character class host compositors use for output names like
// "DP-1" or "eDP-1".
func MonitorID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("monitor id must not be empty")
	}
	if len(trimmed) > 64 {
		return "", fmt.Errorf("monitor id must be at most 64 characters")
	}
	if !monitorIDPattern.MatchString(trimmed) {
		return "", fmt.Errorf("monitor id must contain only letters, numbers, spaces, hyphens, underscores, and dots")
	}
	return trimmed, nil
}

// DataDir sanitizes a configured data directory path: strips control
// characters, requires an absolute path, and rejects traversal
// components. Returns "" if value does not sanitize to a usable path;
// the caller decides how to handle that (cmd/tilecore rejects it).
func DataDir(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	s := strings.TrimSpace(b.String())
	if s == "" || !strings.HasPrefix(s, "/") {
		return ""
	}
	for _, comp := range strings.Split(s, "/") {
		if comp == ".." {
			return ""
		}
	}
	return path.Clean(s)
}
