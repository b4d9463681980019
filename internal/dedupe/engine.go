package dedupe

import (
	"context"
	"log/slog"

	"cratekeeper/internal/library"
	"cratekeeper/internal/logging"
	"cratekeeper/internal/media"
)

// Engine runs the matching cascade against the library index. It holds no
// per-call state; every check is independent and the engine never persists
// verdicts.
type Engine struct {
	store  *library.Store
	reader media.Reader
	policy Policy
	logger *slog.Logger
}

// NewEngine wires a duplicate engine to its library store and metadata
// reader. A nil reader falls back to filename parsing; a nil logger is
// replaced with a no-op.
func NewEngine(store *library.Store, reader media.Reader, policy Policy, logger *slog.Logger) *Engine {
	if reader == nil {
		reader = media.FilenameReader{}
	}
	return &Engine{
		store:  store,
		reader: reader,
		policy: policy.normalized(),
		logger: logging.NewComponentLogger(logger, "dedupe"),
	}
}

// Policy returns the engine's normalized policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) strategies() []strategy {
	return []strategy{
		identityStrategy{store: e.store},
		contentStrategy{store: e.store},
		fuzzyStrategy{store: e.store, policy: e.policy},
	}
}

// Check runs the cascade for one candidate record, short-circuiting on the
// first strategy that produces a verdict. The candidate's own path never
// matches itself.
func (e *Engine) Check(ctx context.Context, candidate *library.IndexedFile, fuzzyThreshold float64) (*Verdict, error) {
	if err := ValidateThreshold(fuzzyThreshold); err != nil {
		return nil, err
	}
	if candidate == nil {
		return NoMatch(), nil
	}

	for _, strat := range e.strategies() {
		verdict, err := strat.attempt(ctx, candidate, fuzzyThreshold)
		if err != nil {
			return nil, err
		}
		if verdict != nil {
			e.logger.Debug("match found",
				logging.String("path", candidate.Path),
				logging.String("strategy", strat.name()),
				logging.Float64("confidence", verdict.Confidence))
			return verdict, nil
		}
	}
	return NoMatch(), nil
}

// CheckFile builds a candidate from a file on disk and runs Check.
func (e *Engine) CheckFile(ctx context.Context, path string, fuzzyThreshold float64) (*Verdict, error) {
	if err := ValidateThreshold(fuzzyThreshold); err != nil {
		return nil, err
	}
	candidate, err := BuildCandidate(e.reader, path)
	if err != nil {
		return nil, err
	}
	return e.Check(ctx, candidate, fuzzyThreshold)
}
