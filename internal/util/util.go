// internal/util/util.go
package util

import (
	"os"
	"strings"
	"unicode/utf8"
)

// WriteFile writes data to a file with 0o644 permissions.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// Truncate cuts a string to at most maxRunes runes. Unlike TruncateRunes it
// adds no ellipsis, so the result never exceeds maxRunes.
func Truncate(text string, maxRunes int) string {
	if maxRunes < 0 {
		maxRunes = 0
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	return string([]rune(text)[:maxRunes])
}

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	return Truncate(text, maxRunes) + "…"
}

// PadRight left-justifies text in a field of width runes. Longer text is
// returned unchanged.
func PadRight(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return text + strings.Repeat(" ", width-n)
}

// PadLeft right-justifies text in a field of width runes. Longer text is
// returned unchanged.
func PadLeft(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", width-n) + text
}
