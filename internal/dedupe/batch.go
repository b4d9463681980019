package dedupe

import (
	"context"
	"strings"

	"cratekeeper/internal/library"
	"cratekeeper/internal/logging"
)

// BatchResult pairs each input path with its verdict and, when the file could
// be read, the candidate record derived for it.
type BatchResult struct {
	Verdicts   map[string]*Verdict
	Candidates map[string]*library.IndexedFile
}

// CheckFiles vets N paths with a bounded number of queries: one batch lookup
// per hash kind for the exact checks, then one artist search per distinct
// artist among the remaining misses. An unreadable file yields a no-match
// verdict for that path only; the rest of the batch proceeds.
func (e *Engine) CheckFiles(ctx context.Context, paths []string, fuzzyThreshold float64) (*BatchResult, error) {
	if err := ValidateThreshold(fuzzyThreshold); err != nil {
		return nil, err
	}

	result := &BatchResult{
		Verdicts:   make(map[string]*Verdict, len(paths)),
		Candidates: make(map[string]*library.IndexedFile, len(paths)),
	}

	identityHashes := make([]string, 0, len(paths))
	contentHashes := make([]string, 0, len(paths))
	for _, path := range paths {
		candidate, err := BuildCandidate(e.reader, path)
		if err != nil {
			e.logger.Warn("skipping unreadable file",
				logging.String("path", path),
				logging.Error(err))
			result.Verdicts[path] = NoMatch()
			continue
		}
		result.Candidates[path] = candidate
		identityHashes = append(identityHashes, candidate.IdentityHash)
		contentHashes = append(contentHashes, candidate.ContentHash)
	}

	identityMatches, err := e.store.BatchGetByIdentityHashes(ctx, identityHashes)
	if err != nil {
		return nil, err
	}
	contentMatches, err := e.store.BatchGetByContentHashes(ctx, contentHashes)
	if err != nil {
		return nil, err
	}

	// Exact hits resolve immediately; the rest group by artist so the
	// candidate pool is fetched once per artist, not once per file. Groups
	// key on the raw artist: SQLite LIKE folds only ASCII, so a lowercased
	// search pattern would miss non-ASCII artists the single-file check
	// finds.
	fuzzyGroups := make(map[string][]string)
	for _, path := range paths {
		candidate, ok := result.Candidates[path]
		if !ok {
			continue
		}
		if matches := excludeSelf(identityMatches[candidate.IdentityHash], candidate.Path); len(matches) > 0 {
			result.Verdicts[path] = exactVerdict(MatchExactMetadata, matches)
			continue
		}
		if matches := excludeSelf(contentMatches[candidate.ContentHash], candidate.Path); len(matches) > 0 {
			result.Verdicts[path] = exactVerdict(MatchExactContent, matches)
			continue
		}

		artist := strings.TrimSpace(candidate.ArtistValue())
		title := strings.TrimSpace(candidate.TitleValue())
		if artist == "" || title == "" {
			result.Verdicts[path] = NoMatch()
			continue
		}
		fuzzyGroups[artist] = append(fuzzyGroups[artist], path)
	}

	for artist, groupPaths := range fuzzyGroups {
		pool, err := e.store.SearchByArtistTitle(ctx, artist, "")
		if err != nil {
			return nil, err
		}
		for _, path := range groupPaths {
			candidate := result.Candidates[path]
			verdict := scoreFuzzy(candidate, pool, fuzzyThreshold, e.policy)
			if verdict == nil {
				verdict = NoMatch()
			}
			result.Verdicts[path] = verdict
		}
	}

	return result, nil
}
