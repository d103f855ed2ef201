package utils

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lower-cases and trims name, then collapses each whitespace run
// into a single hyphen. "Advanced  Calculus" becomes "advanced-calculus".
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
