package calendar

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abc...", truncate("abcdef", 3))

	// "é" is two bytes; a cut inside it backs up to the rune start
	s := strings.Repeat("é", 10)
	got := truncate(s, 5)
	require.True(t, utf8.ValidString(got), "truncated %q", got)
	require.Equal(t, "éé...", got)
}
