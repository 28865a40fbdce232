// Package genre holds the closed movie genre taxonomy and the matching rules
// used by the catalog filter.
package genre

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Genre values accepted on a movie document.
const (
	Action      = "Action"
	Comedy      = "Comedy"
	Drama       = "Drama"
	SciFi       = "Sci-Fi"
	Horror      = "Horror"
	Thriller    = "Thriller"
	Animation   = "Animation"
	Documentary = "Documentary"
	Crime       = "Crime"
	Adventure   = "Adventure"
)

var all = []string{Action, Comedy, Drama, SciFi, Horror, Thriller, Animation, Documentary, Crime, Adventure}

// All returns the closed genre enumeration in declaration order.
func All() []string {
	return slices.Clone(all)
}

// IsValid reports whether g is one of the enumerated genres. Matching is exact.
func IsValid(g string) bool {
	return slices.Contains(all, g)
}

// Normalize trims surrounding whitespace and composes unicode so that
// values pasted from other sources compare equal to the enumeration.
func Normalize(g string) string {
	return norm.NFC.String(strings.TrimSpace(g))
}

// Matcher tests genre lists against a case-insensitive filter pattern.
type Matcher struct {
	re      *regexp.Regexp
	literal string
	fold    cases.Caser
}

// NewMatcher builds a matcher for pattern. The pattern is a regular expression
// matched case-insensitively anywhere in a genre value ("act" matches "Action",
// "^a" matches "Action", "Animation" and "Adventure"). A pattern that does not
// compile is matched as a plain case-folded substring.
func NewMatcher(pattern string) *Matcher {
	m := &Matcher{fold: cases.Fold()}
	if re, err := regexp.Compile("(?i)" + pattern); err == nil {
		m.re = re
		return m
	}
	m.literal = m.fold.String(pattern)
	return m
}

// Match reports whether any element of genres matches.
func (m *Matcher) Match(genres []string) bool {
	for _, g := range genres {
		if m.re != nil {
			if m.re.MatchString(g) {
				return true
			}
			continue
		}
		if strings.Contains(m.fold.String(g), m.literal) {
			return true
		}
	}
	return false
}
