// Package search implements typo-tolerant product name matching.
//
// A query matches a name when every query word is close to some word of the
// name. Closeness is the Levenshtein distance to the whole name word or to
// its prefix of the query word's length, whichever is smaller, and must not
// exceed MaxDistance for the query word's length.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/junaidrashid-git/storefront/models"
)

// MaxDistance is the number of edits tolerated for a query word of n runes.
func MaxDistance(n int) int {
	switch {
	case n < 4:
		return 0
	case n < 8:
		return 1
	default:
		return 2
	}
}

// Match is a candidate accepted by the matcher with its total distance.
type Match struct {
	ID       uint
	Name     string
	Distance int
}

// Words lower-cases s and splits it on anything that is not a letter or a
// digit.
func Words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// wordDistance is the best distance between a query word and a name word.
func wordDistance(q, w string) int {
	best := levenshtein.ComputeDistance(q, w)
	qr, wr := []rune(q), []rune(w)
	if len(wr) > len(qr) {
		if d := levenshtein.ComputeDistance(q, string(wr[:len(qr)])); d < best {
			best = d
		}
	}
	return best
}

// Distance returns the total distance of name from query and whether every
// query word found a close enough name word.
func Distance(query, name string) (int, bool) {
	qWords := Words(query)
	nWords := Words(name)
	if len(qWords) == 0 || len(nWords) == 0 {
		return 0, false
	}
	total := 0
	for _, q := range qWords {
		limit := MaxDistance(len([]rune(q)))
		best := -1
		for _, w := range nWords {
			if d := wordDistance(q, w); d <= limit && (best < 0 || d < best) {
				best = d
			}
		}
		if best < 0 {
			return 0, false
		}
		total += best
	}
	return total, true
}

// Rank returns the candidates matching query, closest first, ties broken by
// name and then id.
func Rank(query string, candidates []models.ProductName) []Match {
	var matches []Match
	for _, c := range candidates {
		if d, ok := Distance(query, c.Name); ok {
			matches = append(matches, Match{ID: c.ID, Name: c.Name, Distance: d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return matches
}
