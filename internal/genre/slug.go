package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a genre name to a URL-safe slug.
// "Sci-Fi" -> "sci-fi".
// "Documentary" -> "documentary".
// "Film Noir" -> "film-noir".
func Slugify(s string) string {
	// Decompose accented characters, then drop everything outside ASCII.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// Slugs returns the slug of every genre in gs, preserving order.
func Slugs(gs []string) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = Slugify(g)
	}
	return out
}
