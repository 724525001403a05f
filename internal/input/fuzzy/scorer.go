package fuzzy

import "unicode"

// Scorer calculates match scores. Higher scores are better matches.
//
// original is the candidate as given, folded the candidate as compared
// (lowercase unless matching is case-sensitive), and matches the rune
// indices of the matched characters.
type Scorer interface {
	Score(query, original, folded []rune, matches []int) int
}

// Weights are the terms of a WeightedScorer.
type Weights struct {
	Base            int
	Consecutive     int
	WordBoundary    int
	FirstRune       int
	ExactPrefix     int
	Gap             int
	Leading         int
	LengthThreshold int
}

// DefaultWeights returns the weights used by DefaultScorer.
func DefaultWeights() Weights {
	return Weights{
		Base:            100,
		Consecutive:     20,
		WordBoundary:    15,
		FirstRune:       25,
		ExactPrefix:     50,
		Gap:             2,
		Leading:         1,
		LengthThreshold: 20,
	}
}

// DefaultScorer scores with DefaultWeights.
type DefaultScorer struct{}

// Score implements Scorer.
func (DefaultScorer) Score(query, original, folded []rune, matches []int) int {
	return WeightedScorer{Weights: DefaultWeights()}.Score(query, original, folded, matches)
}

// WeightedScorer scores with configurable weights.
type WeightedScorer struct {
	Weights Weights
}

// Score implements Scorer. Any match scores at least 1.
func (s WeightedScorer) Score(query, original, folded []rune, matches []int) int {
	if len(matches) == 0 {
		return 0
	}
	w := s.Weights
	score := w.Base

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			score += w.Consecutive
		}
	}
	for _, idx := range matches {
		if isWordBoundary(original, idx) {
			score += w.WordBoundary
		}
	}

	first, last := matches[0], matches[len(matches)-1]
	if first == 0 {
		score += w.FirstRune
	}
	if gap := last - first - len(matches) + 1; gap > 0 {
		score -= gap * w.Gap
	}
	score -= first * w.Leading

	if n := len(folded); n < w.LengthThreshold {
		score += w.LengthThreshold - n
	}
	if hasPrefix(folded, query) {
		score += w.ExactPrefix
	}

	return max(score, 1)
}

func hasPrefix(text, prefix []rune) bool {
	if len(text) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}

// isWordBoundary reports whether the rune at idx starts a word: the first
// rune, a rune after a space or punctuation, or an upper-case rune after a
// lower-case one.
func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}
	prev, cur := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
