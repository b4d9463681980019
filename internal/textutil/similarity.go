package textutil

import (
	"github.com/hbollon/go-edlib"
)

// Similarity scores how alike two normalized strings are, in [0, 1].
// Identical strings score 1. Empty input scores 0 against anything non-equal.
func Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return float64(score)
}

// TitleSimilarity normalizes both titles and scores their similarity.
func TitleSimilarity(a, b string) float64 {
	return Similarity(NormalizeTitle(a), NormalizeTitle(b))
}
