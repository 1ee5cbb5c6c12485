package resolver

import (
	"regexp"
	"strings"
)

var (
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]+`)
	whitespace   = regexp.MustCompile(`\s+`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9_]`)
)

// Normalize canonicalizes a display name for map lookup: lowercase, runs
// of non-alphanumeric characters collapsed to single spaces, trimmed.
func Normalize(name string) string {
	s := strings.ToLower(name)
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SynthesizeSlug derives a slug directly from a display name: lowercase,
// whitespace to underscores, all other non [a-z0-9_] characters stripped,
// trailing "_blueprint" suffix removed. The result is a guess; a 404 from
// downstream is a normal outcome for a synthesized slug.
func SynthesizeSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespace.ReplaceAllString(s, "_")
	s = nonSlugChars.ReplaceAllString(s, "")
	return strings.TrimSuffix(s, "_blueprint")
}
