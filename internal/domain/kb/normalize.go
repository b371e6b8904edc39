package kb

import "strings"

// Normalize lowercases and trims text for comparison. There is no further
// Unicode normalization: case folding is a no-op for Malayalam script, which
// passes through unchanged.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
