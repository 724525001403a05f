package fuzzy

import (
	"sort"
	"strings"
	"sync"
)

// Result is a matched candidate.
type Result struct {
	// Text is the candidate.
	Text string

	// Score is the match score (higher is better).
	Score int

	// Matches holds the rune indices of the matched characters.
	Matches []int
}

// Options configures a Matcher.
type Options struct {
	// MinScore is the score a match must exceed to be reported.
	MinScore int

	// CaseSensitive disables case folding.
	CaseSensitive bool
}

// DefaultOptions returns case-insensitive matching with no minimum score.
func DefaultOptions() Options {
	return Options{}
}

// Matcher performs fuzzy string matching. It is safe for concurrent use.
type Matcher struct {
	mu      sync.RWMutex
	scorer  Scorer
	options Options
}

// NewMatcher creates a matcher using the default scorer.
func NewMatcher(opts Options) *Matcher {
	return &Matcher{
		scorer:  DefaultScorer{},
		options: opts,
	}
}

// SetScorer replaces the scoring algorithm.
func (m *Matcher) SetScorer(scorer Scorer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scorer = scorer
}

// Match returns the candidates containing the query's characters in order,
// best first. Ties keep lexical order. An empty query returns every
// candidate in the given order. A limit of zero or less returns all
// matches.
func (m *Matcher) Match(query string, candidates []string, limit int) []Result {
	query = strings.TrimSpace(query)
	if !m.options.CaseSensitive {
		query = strings.ToLower(query)
	}

	if query == "" {
		results := make([]Result, 0, len(candidates))
		for _, c := range candidates {
			results = append(results, Result{Text: c})
		}
		return applyLimit(results, limit)
	}

	m.mu.RLock()
	scorer := m.scorer
	m.mu.RUnlock()

	queryRunes := []rune(query)
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		score, matches := m.matchOne(scorer, queryRunes, c)
		if score > m.options.MinScore {
			results = append(results, Result{Text: c, Score: score, Matches: matches})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Text < results[j].Text
	})
	return applyLimit(results, limit)
}

// matchOne scans text left to right for the query runes.
func (m *Matcher) matchOne(scorer Scorer, queryRunes []rune, text string) (int, []int) {
	if text == "" {
		return 0, nil
	}

	original := []rune(text)
	folded := original
	if !m.options.CaseSensitive {
		folded = []rune(strings.ToLower(text))
	}
	// Case folding can change rune counts; fall back to the original.
	if len(folded) != len(original) {
		folded = original
	}

	matches := make([]int, 0, len(queryRunes))
	qi := 0
	for i := 0; i < len(folded) && qi < len(queryRunes); i++ {
		if folded[i] == queryRunes[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(queryRunes) {
		return 0, nil
	}
	return scorer.Score(queryRunes, original, folded, matches), matches
}

func applyLimit(results []Result, limit int) []Result {
	if limit <= 0 || limit >= len(results) {
		return results
	}
	return results[:limit]
}
