package renderer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
	}{
		{"short", "  page never loaded \n", stderrExcerptLen},
		{"ascii tail", strings.Repeat("a", 700) + "crashed", stderrExcerptLen},
		{"multi-byte at the cut", "x" + strings.Repeat("ท่าเรือ", 100), stderrExcerptLen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := excerpt([]byte(tt.input))

			assert.True(t, utf8.ValidString(got), "invalid utf-8: %q", got)
			assert.LessOrEqual(t, len(got), tt.maxLen)
			assert.True(t, strings.HasSuffix(strings.TrimSpace(tt.input), got))
		})
	}
	assert.Equal(t, "page never loaded", excerpt([]byte("  page never loaded \n")))
}
