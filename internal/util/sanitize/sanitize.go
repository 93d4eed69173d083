package sanitize

import (
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// Title sanitizes a terminal title by removing control characters
// and limiting the length.
func Title(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if b.Len() >= maxLen {
			break
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

var stripPolicy = sync.OnceValue(bluemonday.StrictPolicy)

// ClientText sanitizes a client's title or app-id before it crosses
// the IPC boundary into a snapshot response: bluemonday's strict
// policy strips all markup (a misbehaving or malicious client can set
// its title to arbitrary text, and the IPC snapshot is consumed by a
// browser-hosted status bar), then Title trims control characters and
// length the same way it does for locally-displayed titles.
func ClientText(s string, maxLen int) string {
	return Title(stripPolicy().Sanitize(s), maxLen)
}
