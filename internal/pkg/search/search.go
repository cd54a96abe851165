// Package search implements the typo tolerant text match used by patent search.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Tokenize lowercases s and splits it on anything that is not a letter or digit.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// MaxEdits is the edit budget for a query term: exact for very short terms,
// one typo up to five runes, two beyond that.
func MaxEdits(term string) int {
	switch n := utf8.RuneCountInString(term); {
	case n <= 2:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// Matcher holds a tokenized query so it can be checked against many documents.
type Matcher struct {
	terms []string
}

func NewMatcher(query string) *Matcher {
	return &Matcher{terms: Tokenize(query)}
}

// Empty reports whether the query had no usable terms.
func (m *Matcher) Empty() bool {
	return len(m.terms) == 0
}

// Match reports whether any query term is within its edit budget of some
// token in fields. A term that is a prefix of a token also matches.
func (m *Matcher) Match(fields ...string) bool {
	var tokens []string
	for _, f := range fields {
		tokens = append(tokens, Tokenize(f)...)
	}

	for _, term := range m.terms {
		budget := MaxEdits(term)
		for _, tok := range tokens {
			if termMatches(term, tok, budget) {
				return true
			}
		}
	}
	return false
}

func termMatches(term, tok string, budget int) bool {
	if term == tok {
		return true
	}
	if utf8.RuneCountInString(term) > 2 && strings.HasPrefix(tok, term) {
		return true
	}
	if budget == 0 {
		return false
	}
	// lengths further apart than the budget can never match
	if d := utf8.RuneCountInString(term) - utf8.RuneCountInString(tok); d > budget || -d > budget {
		return false
	}
	return levenshtein.ComputeDistance(term, tok) <= budget
}
