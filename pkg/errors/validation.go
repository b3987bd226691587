package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const maxPathLength = 500

// pathRules are checked in order; the first failing rule names the problem.
var pathRules = []struct {
	bad func(string) bool
	msg string
}{
	{func(p string) bool { return p == "" }, "path cannot be empty"},
	{func(p string) bool { return len(p) > maxPathLength }, "path too long"},
	{func(p string) bool { return strings.IndexFunc(p, unicode.IsControl) >= 0 }, "path contains control characters"},
	{func(p string) bool { return strings.Contains(p, "..") }, "path cannot contain \"..\""},
	{func(p string) bool { return strings.ContainsRune(p, '\\') }, "path cannot contain backslashes"},
}

// ValidatePath rejects document paths that are empty, overlong, contain
// control characters or backslashes, or try to climb out with "..".
// Absolute paths are accepted.
func ValidatePath(path string) error {
	for _, r := range pathRules {
		if r.bad(path) {
			return New(ErrCodeInvalidPath, "%s", r.msg)
		}
	}
	return nil
}

// ValidateText validates a label or dataset text.
// It rejects control characters other than newlines and tabs, and texts
// longer than 1024 characters.
func ValidateText(text string) error {
	if len(text) > 1024 {
		return New(ErrCodeInvalidDataset, "text too long (max 1024 characters)")
	}
	for _, r := range text {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "text contains invalid control characters")
		}
	}
	return nil
}

// colorRegex matches #rgb, #rgba, #rrggbb and #rrggbbaa hex colors, and
// plain CSS color names.
var colorRegex = regexp.MustCompile(`^(#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|[a-zA-Z]+)$`)

// ValidateColor validates a color value. Empty means "use the default".
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid color: %q", color)
	}
	return nil
}

// ValidateNonNegative validates a size, padding or duration value.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative: %v", name, v)
	}
	return nil
}
