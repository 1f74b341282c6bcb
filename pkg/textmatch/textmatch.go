// Package textmatch implements bounded, case-insensitive string matching for names and search queries.
// Inputs are capped to MaxLength runes before any comparison so a crafted query cannot make matching expensive.
package textmatch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the maximum number of runes considered in a matched value.
const MaxLength = 100

// Bound trims s and truncates it to MaxLength runes.
func Bound(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxLength {
		return s
	}

	var n, i int
	for i = range s {
		if n == MaxLength {
			break
		}
		n++
	}
	return s[:i]
}

// Normalize returns the comparable form of s.
func Normalize(s string) string {
	return cases.Fold().String(norm.NFKC.String(Bound(s)))
}

// Equal returns true when a and b are the same name, ignoring case and surrounding spaces.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Contains returns true when query is found in s. An empty query matches everything.
func Contains(s, query string) bool {
	q := Normalize(query)
	if q == "" {
		return true
	}
	return strings.Contains(Normalize(s), q)
}
