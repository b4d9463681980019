package process

import (
	"context"
	"log/slog"

	"cratekeeper/internal/history"
	"cratekeeper/internal/logging"
	"cratekeeper/internal/services"
	"cratekeeper/internal/vetting"
)

// Result partitions a processed folder into three disjoint buckets. Every
// scanned file appears in exactly one of them (uncertain files ride along in
// the embedded report and are excluded from all three).
type Result struct {
	Report          *vetting.Report `json:"report"`
	Duplicates      []string        `json:"duplicates"`
	AlreadyReviewed []history.Match `json:"already_reviewed"`
	TrulyNew        []string        `json:"truly_new"`
}

// Coordinator composes vetting against the library with the review history,
// so a track that was vetted once and rejected does not resurface as new on
// the next import.
type Coordinator struct {
	orchestrator *vetting.Orchestrator
	history      *history.Store
	logger       *slog.Logger
}

// NewCoordinator wires the processing coordinator.
func NewCoordinator(orchestrator *vetting.Orchestrator, historyStore *history.Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		orchestrator: orchestrator,
		history:      historyStore,
		logger:       logging.NewComponentLogger(logger, "process"),
	}
}

// ProcessFolder vets the folder, then filters the vetting's new files
// through the review history: files whose base filename was seen before are
// reported as already reviewed, the remainder as truly new.
//
// When record is set, the truly-new filenames are added to the history in
// one transaction so the next run recognizes them.
func (c *Coordinator) ProcessFolder(ctx context.Context, folder string, threshold float64, record bool) (*Result, error) {
	report, err := c.orchestrator.VetFolder(ctx, folder, threshold)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Report:     report,
		Duplicates: duplicatePaths(report),
	}

	reviewed := make(map[string]history.Match, len(report.NewFiles))
	if c.history != nil && len(report.NewFiles) > 0 {
		matches, err := c.history.CheckPaths(ctx, report.NewFiles)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			reviewed[match.Path] = match
		}
	}

	for _, path := range report.NewFiles {
		if match, ok := reviewed[path]; ok {
			result.AlreadyReviewed = append(result.AlreadyReviewed, match)
			continue
		}
		result.TrulyNew = append(result.TrulyNew, path)
	}

	if record && len(result.TrulyNew) > 0 {
		if c.history == nil {
			return nil, services.Wrap(services.ErrValidation, "process", "record history", "history store is not configured", nil)
		}
		added, err := c.history.AddPaths(ctx, result.TrulyNew)
		if err != nil {
			return nil, err
		}
		c.logger.Info("history recorded",
			logging.Int("added", added),
			logging.Int("truly_new", len(result.TrulyNew)))
	}

	c.logger.Info("folder processed",
		logging.String("folder", folder),
		logging.Int("duplicates", len(result.Duplicates)),
		logging.Int("already_reviewed", len(result.AlreadyReviewed)),
		logging.Int("truly_new", len(result.TrulyNew)),
		logging.Int("uncertain", len(report.Uncertain)))

	return result, nil
}

func duplicatePaths(report *vetting.Report) []string {
	paths := make([]string, 0, len(report.Duplicates))
	for _, entry := range report.Duplicates {
		paths = append(paths, entry.Path)
	}
	return paths
}
