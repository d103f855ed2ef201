package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Mathematics":           "mathematics",
		"  Advanced  Calculus ": "advanced-calculus",
		"Web\tDevelopment\n101": "web-development-101",
		"":                      "",
		"   ":                   "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
