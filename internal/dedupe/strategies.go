package dedupe

import (
	"context"
	"sort"
	"strings"

	"cratekeeper/internal/library"
	"cratekeeper/internal/textutil"
)

// strategy is one level of the matching cascade. A nil verdict with a nil
// error means the strategy has nothing to say and the next one runs.
type strategy interface {
	name() string
	attempt(ctx context.Context, query *library.IndexedFile, threshold float64) (*Verdict, error)
}

type identityStrategy struct {
	store *library.Store
}

func (identityStrategy) name() string { return "exact_metadata" }

func (s identityStrategy) attempt(ctx context.Context, query *library.IndexedFile, _ float64) (*Verdict, error) {
	if query.IdentityHash == "" {
		return nil, nil
	}
	matches, err := s.store.FindByIdentityHash(ctx, query.IdentityHash)
	if err != nil {
		return nil, err
	}
	matches = excludeSelf(matches, query.Path)
	if len(matches) == 0 {
		return nil, nil
	}
	return exactVerdict(MatchExactMetadata, matches), nil
}

type contentStrategy struct {
	store *library.Store
}

func (contentStrategy) name() string { return "exact_content" }

func (s contentStrategy) attempt(ctx context.Context, query *library.IndexedFile, _ float64) (*Verdict, error) {
	if query.ContentHash == "" {
		return nil, nil
	}
	matches, err := s.store.FindByContentHash(ctx, query.ContentHash)
	if err != nil {
		return nil, err
	}
	matches = excludeSelf(matches, query.Path)
	if len(matches) == 0 {
		return nil, nil
	}
	return exactVerdict(MatchExactContent, matches), nil
}

type fuzzyStrategy struct {
	store  *library.Store
	policy Policy
}

func (fuzzyStrategy) name() string { return "fuzzy_metadata" }

func (s fuzzyStrategy) attempt(ctx context.Context, query *library.IndexedFile, threshold float64) (*Verdict, error) {
	artist := strings.TrimSpace(query.ArtistValue())
	title := strings.TrimSpace(query.TitleValue())
	if artist == "" || title == "" {
		return nil, nil
	}
	candidates, err := s.store.SearchByArtistTitle(ctx, artist, "")
	if err != nil {
		return nil, err
	}
	return scoreFuzzy(query, candidates, threshold, s.policy), nil
}

// scoreFuzzy scores pre-fetched candidates against the query. Candidates must
// share the query's normalized artist; titles are normalized before scoring.
// Only scores at or above the policy floor are kept. Returns nil when nothing
// qualifies.
func scoreFuzzy(query *library.IndexedFile, candidates []*library.IndexedFile, threshold float64, policy Policy) *Verdict {
	queryArtist := textutil.NormalizeArtist(query.ArtistValue())
	queryTitle := textutil.NormalizeTitle(query.TitleValue())
	if queryArtist == "" || queryTitle == "" {
		return nil
	}

	var scored []ScoredMatch
	for _, candidate := range candidates {
		if candidate.Path == query.Path {
			continue
		}
		if textutil.NormalizeArtist(candidate.ArtistValue()) != queryArtist {
			continue
		}
		score := textutil.Similarity(queryTitle, textutil.NormalizeTitle(candidate.TitleValue()))
		if score < policy.FuzzyFloor {
			continue
		}
		scored = append(scored, ScoredMatch{File: candidate, Score: score})
	}
	if len(scored) == 0 {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].File.ID < scored[j].File.ID
	})

	top := scored[0].Score
	return &Verdict{
		// The threshold boundary is inclusive.
		IsDuplicate: top >= threshold,
		Confidence:  top,
		MatchType:   MatchFuzzyMetadata,
		BestMatch:   scored[0].File,
		Matches:     scored,
	}
}

// excludeSelf copies rather than compacting in place; batch lookups share
// slices between paths with the same hash.
func excludeSelf(matches []*library.IndexedFile, path string) []*library.IndexedFile {
	out := make([]*library.IndexedFile, 0, len(matches))
	for _, match := range matches {
		if match.Path == path {
			continue
		}
		out = append(out, match)
	}
	return out
}
