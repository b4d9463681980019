package dedupe

import (
	"fmt"

	"cratekeeper/internal/library"
	"cratekeeper/internal/services"
)

// MatchType identifies which check produced a verdict.
type MatchType string

const (
	MatchNone          MatchType = "none"
	MatchExactMetadata MatchType = "exact_metadata"
	MatchExactContent  MatchType = "exact_content"
	MatchFuzzyMetadata MatchType = "fuzzy_metadata"
)

func (m MatchType) valid() bool {
	switch m {
	case MatchNone, MatchExactMetadata, MatchExactContent, MatchFuzzyMetadata:
		return true
	}
	return false
}

// ScoredMatch pairs a library record with its similarity score.
type ScoredMatch struct {
	File  *library.IndexedFile `json:"file"`
	Score float64              `json:"score"`
}

// Verdict is the outcome of checking one candidate file against the library.
// Matches are ranked by score descending; BestMatch is the top entry.
type Verdict struct {
	IsDuplicate bool                 `json:"is_duplicate"`
	Confidence  float64              `json:"confidence"`
	MatchType   MatchType            `json:"match_type"`
	BestMatch   *library.IndexedFile `json:"best_match,omitempty"`
	Matches     []ScoredMatch        `json:"matches,omitempty"`
}

// NewVerdict validates its inputs before constructing a verdict. Confidence
// outside [0, 1] or an unknown match type is rejected.
func NewVerdict(isDuplicate bool, confidence float64, matchType MatchType, best *library.IndexedFile, matches []ScoredMatch) (*Verdict, error) {
	if confidence < 0 || confidence > 1 {
		return nil, services.Wrap(services.ErrValidation, "dedupe", "new verdict",
			fmt.Sprintf("confidence must be in [0, 1], got %v", confidence), nil)
	}
	if !matchType.valid() {
		return nil, services.Wrap(services.ErrValidation, "dedupe", "new verdict",
			fmt.Sprintf("unknown match type %q", matchType), nil)
	}
	return &Verdict{
		IsDuplicate: isDuplicate,
		Confidence:  confidence,
		MatchType:   matchType,
		BestMatch:   best,
		Matches:     matches,
	}, nil
}

// NoMatch is the zero-confidence verdict used when every check misses or a
// file cannot be read during a batch.
func NoMatch() *Verdict {
	return &Verdict{IsDuplicate: false, Confidence: 0, MatchType: MatchNone}
}

func exactVerdict(matchType MatchType, matches []*library.IndexedFile) *Verdict {
	scored := make([]ScoredMatch, 0, len(matches))
	for _, match := range matches {
		scored = append(scored, ScoredMatch{File: match, Score: 1})
	}
	return &Verdict{
		IsDuplicate: true,
		Confidence:  1,
		MatchType:   matchType,
		BestMatch:   matches[0],
		Matches:     scored,
	}
}
