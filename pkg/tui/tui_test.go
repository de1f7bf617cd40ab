package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetColorScheme verifies scheme lookup and the fallback to default.
func TestGetColorScheme(t *testing.T) {
	dark := GetColorScheme("dark")
	assert.Equal(t, ColorSchemes["dark"], dark)

	unknown := GetColorScheme("neon")
	assert.Equal(t, DefaultColorScheme(), unknown)
}

// TestWrapLines verifies line wrapping under a fixed width.
func TestWrapLines(t *testing.T) {
	lines := []string{"short", "a line that is definitely longer than ten"}

	out := WrapLines(lines, 10)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 10, "wrapped line exceeds width: %q", line)
	}

	// Ширина <= 0 отключает перенос.
	raw := WrapLines(lines, 0)
	assert.Equal(t, "short\na line that is definitely longer than ten", raw)
}

// TestRenderStatusBar verifies the status bar contains title and model name.
func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar("MRKL Agent", "gpt-4o", DefaultColorScheme())
	assert.Contains(t, bar, "MRKL Agent")
	assert.Contains(t, bar, "gpt-4o")
}
