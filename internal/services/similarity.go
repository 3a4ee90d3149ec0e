package services

// stringSimilarity returns a normalized similarity in [0, 1] based on edit
// distance: 1 - distance/maxLen. Two empty strings are identical.
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshteinDistance(ra, rb))/float64(maxLen)
}

// fuzzyMatch reports whether the similarity of a and b reaches the
// threshold. The boundary is inclusive.
func fuzzyMatch(a, b string, threshold float64) bool {
	return stringSimilarity(a, b) >= threshold
}

// levenshteinDistance computes the classic dynamic-programming edit distance
// with unit insert/delete/substitute costs.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
