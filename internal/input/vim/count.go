package vim

import "math"

// CombineCounts multiplies two counts with overflow protection.
// Either count may be 0, meaning 1. e.g. "2d3w" = delete (2*3=6) words.
func CombineCounts(count1, count2 int) int {
	if count1 <= 0 {
		count1 = 1
	}
	if count2 <= 0 {
		count2 = 1
	}

	// Guard against overflow
	if count1 > math.MaxInt/count2 {
		return math.MaxInt / 10
	}

	return count1 * count2
}

// composeCounts is CombineCounts that keeps "not given" when neither
// count was given.
func composeCounts(count1, count2 int) int {
	if count1 <= 0 && count2 <= 0 {
		return 0
	}
	return CombineCounts(count1, count2)
}

// atLeastOne returns count, or 1 when the count was not given.
func atLeastOne(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}
