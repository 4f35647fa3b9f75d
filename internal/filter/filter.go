// Package filter provides the exclusion rules applied to news search hits.
//
// A hit is excluded when any of three layered rules matches:
//   - Author blacklist (case-insensitive set membership)
//   - URL pattern blacklist (substring match anywhere in the link)
//   - Year mismatch (case filing year vs article publication year)
//
// The rules are evaluated in that fixed priority order and the first match
// decides the verdict, so a hit excluded for multiple reasons records only
// the highest-priority one.
package filter

import (
	"fmt"
	"strings"
)

// Kind is the classification outcome category for one search hit.
type Kind int

const (
	Valid Kind = iota
	ExcludedAuthor
	ExcludedURLPattern
	ExcludedYearMismatch
)

// Verdict is the classification outcome for one search hit. Excluded
// verdicts carry the human-readable reason recorded in the excluded table.
type Verdict struct {
	Kind   Kind
	Reason string
}

// Excluded reports whether the verdict routes the hit to the excluded table.
func (v Verdict) Excluded() bool {
	return v.Kind != Valid
}

// Rules holds the configured exclusion filters for search hits.
type Rules struct {
	authors      map[string]struct{}
	urlPatterns  []string
	yearMatching bool
}

// NewRules creates the rule set. Author comparison is case-insensitive;
// URL patterns match as substrings in configured order. Year-mismatch
// checking only runs when yearMatching is true.
func NewRules(excludedAuthors, excludedURLPatterns []string, yearMatching bool) *Rules {
	authors := make(map[string]struct{}, len(excludedAuthors))
	for _, a := range excludedAuthors {
		authors[strings.ToLower(a)] = struct{}{}
	}
	return &Rules{
		authors:      authors,
		urlPatterns:  excludedURLPatterns,
		yearMatching: yearMatching,
	}
}

// IsExcludedAuthor reports whether author is on the blacklist.
func (r *Rules) IsExcludedAuthor(author string) bool {
	_, ok := r.authors[strings.ToLower(author)]
	return ok
}

// MatchingURLPattern returns the first configured pattern occurring in url.
func (r *Rules) MatchingURLPattern(url string) (string, bool) {
	for _, p := range r.urlPatterns {
		if strings.Contains(url, p) {
			return p, true
		}
	}
	return "", false
}

// YearMismatch reports whether the case and article years conflict. A year
// of zero means "could not determine" and never triggers a mismatch,
// regardless of the year-matching flag.
func (r *Rules) YearMismatch(caseYear, articleYear int) bool {
	return r.yearMatching && caseYear != 0 && articleYear != 0 && caseYear != articleYear
}

// Evaluate applies the rules in priority order: author, then URL pattern,
// then year mismatch. The first matching rule fixes the verdict.
func (r *Rules) Evaluate(author, url string, caseYear, articleYear int) Verdict {
	if r.IsExcludedAuthor(author) {
		return Verdict{
			Kind:   ExcludedAuthor,
			Reason: fmt.Sprintf("Excluded author: %s", author),
		}
	}
	if pattern, ok := r.MatchingURLPattern(url); ok {
		return Verdict{
			Kind:   ExcludedURLPattern,
			Reason: fmt.Sprintf("URL pattern match: %s", pattern),
		}
	}
	if r.YearMismatch(caseYear, articleYear) {
		return Verdict{
			Kind:   ExcludedYearMismatch,
			Reason: fmt.Sprintf("Year mismatch: Case year %d != Article year %d", caseYear, articleYear),
		}
	}
	return Verdict{Kind: Valid}
}
