package textutil

// Levenshtein computes the edit distance between two strings, counting runes.
// The distance is the minimum number of single-rune insertions, deletions, or
// substitutions required to transform one string into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Keep ra as the shorter string so rows stay small.
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}

// LevenshteinSimilarity returns 1 - distance/max(len(a), len(b)) in runes.
// Unlike a plain normalized distance, an empty operand scores 0: an absent
// name is no evidence of a match.
func LevenshteinSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	distance := Levenshtein(a, b)
	return 1.0 - float64(distance)/float64(max(la, lb))
}

// NameSimilarity compares two raw names after NormalizeName.
func NameSimilarity(a, b string) float64 {
	return LevenshteinSimilarity(NormalizeName(a), NormalizeName(b))
}
