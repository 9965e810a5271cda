package format

import "strings"

// GroupSize is the conventional cipher text group length.
const GroupSize = 5

// Groups splits msg into space-separated groups of n symbols; the last group
// may be shorter. n <= 0 returns msg unchanged.
func Groups(msg string, n int) string {
	if n <= 0 {
		return msg
	}
	runes := []rune(msg)
	var b strings.Builder
	b.Grow(len(msg) + len(msg)/n)
	for i, r := range runes {
		if i > 0 && i%n == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
