package errors

import (
	"fmt"
	"strings"
)

// SuggestName suggests a close match when an unknown option, event, or
// field name is encountered. It uses Levenshtein distance to find the most
// similar known name.
func SuggestName(unknown string, known []string) string {
	if len(known) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, name := range known {
		dist := levenshteinDistance(unknown, name)
		if dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	// Only suggest when the distance is small enough to be plausible.
	if minDistance < 5 {
		return fmt.Sprintf("Did you mean %q?", bestMatch)
	}

	if len(known) > 5 {
		return fmt.Sprintf("Known names include: %s, ...", strings.Join(known[:5], ", "))
	}
	return fmt.Sprintf("Known names: %s", strings.Join(known, ", "))
}

// SuggestValues lists the allowed values for a closed attribute set such as
// groupRelation or onmatch.
func SuggestValues(attr string, allowed []string) string {
	return fmt.Sprintf("Allowed values for %s: %s", attr, strings.Join(allowed, ", "))
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len1][len2]
}
