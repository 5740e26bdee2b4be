// Package slug converts free-text model labels into filesystem-safe
// directory names. The transformation is pure, deterministic, and
// idempotent; downstream consumers rely on the produced names never
// changing between runs.
package slug

import "strings"

// Unknown is the directory name used for labels that carry no signal.
const Unknown = "unknown"

// Normalize converts a label into a lowercase token containing only
// characters from [a-z0-9._-]. Whitespace runs and disallowed characters
// become single underscores, repeated underscores collapse, and leading or
// trailing underscores are stripped. Empty input and input that reduces to
// nothing both return "unknown".
func Normalize(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return Unknown
	}

	var b strings.Builder
	b.Grow(len(label))
	lastUnderscore := false
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastUnderscore = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastUnderscore = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '.' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			// Whitespace and every other rune map to a single underscore.
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return Unknown
	}
	return out
}
