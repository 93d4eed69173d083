package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"empty", "", 100, ""},
		{"normal", "bash", 100, "bash"},
		{"with control chars", "ba\x00sh\x07", 100, "bash"},
		{"truncate", "very long title", 8, "very lon"},
		{"trim whitespace", "  hello  ", 100, "hello"},
		{"unicode", "日本語タイトル", 100, "日本語タイトル"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Title(tt.input, tt.maxLen)
			assert.Equal(t, tt.want, got, "Title(%q, %d)", tt.input, tt.maxLen)
		})
	}
}

func TestClientText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"plain", "my-terminal", 100, "my-terminal"},
		{"strips tags", "<script>alert(1)</script>hello", 100, "hello"},
		{"strips attrs", `<img src=x onerror=alert(1)>title`, 100, "title"},
		{"control chars survive html stripping", "ba\x00sh", 100, "bash"},
		{"truncated after stripping", "<b>very long title</b>", 8, "very lon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClientText(tt.input, tt.maxLen)
			assert.Equal(t, tt.want, got, "ClientText(%q, %d)", tt.input, tt.maxLen)
		})
	}
}
