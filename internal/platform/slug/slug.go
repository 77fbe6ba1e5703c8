// Package slug turns free text into lowercase kebab-case path segments.
package slug

import (
	"regexp"
	"strings"
)

const maxLen = 64

var (
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)
	kebab       = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Make returns the kebab-case form of input, at most 64 bytes. Input with no
// letters or digits yields fallback.
func Make(input, fallback string) string {
	s := nonAlphaNum.ReplaceAllString(strings.ToLower(strings.TrimSpace(input)), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		return fallback
	}
	return s
}

// Valid reports whether s is already a slug.
func Valid(s string) bool {
	return len(s) <= maxLen && kebab.MatchString(s)
}
