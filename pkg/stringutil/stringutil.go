// Package stringutil provides string helpers for rendering workflow data.
package stringutil

// ValueOr returns *s, or placeholder when s is nil.
func ValueOr(s *string, placeholder string) string {
	if s == nil {
		return placeholder
	}
	return *s
}

// Truncate shortens s to at most maxLen runes, ending with "..." when cut.
// A maxLen of zero or less disables truncation.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
