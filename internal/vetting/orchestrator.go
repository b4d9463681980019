package vetting

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cratekeeper/internal/config"
	"cratekeeper/internal/dedupe"
	"cratekeeper/internal/fileutil"
	"cratekeeper/internal/library"
	"cratekeeper/internal/logging"
	"cratekeeper/internal/services"
)

// Orchestrator scans candidate folders and partitions each file into
// duplicate, new, or uncertain relative to the library.
type Orchestrator struct {
	engine      *dedupe.Engine
	store       *library.Store
	extensions  fileutil.ExtensionSet
	persistRuns bool
	logger      *slog.Logger
}

// NewOrchestrator wires the vetting orchestrator. The store is only used to
// persist run summaries when the config asks for it.
func NewOrchestrator(engine *dedupe.Engine, store *library.Store, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		engine:      engine,
		store:       store,
		extensions:  fileutil.NewExtensionSet(cfg.Library.AudioExtensions),
		persistRuns: cfg.Vetting.PersistRuns,
		logger:      logging.NewComponentLogger(logger, "vetting"),
	}
}

// VetFolder enumerates audio files under folder deterministically, checks
// them in one batch, and categorizes every verdict. The threshold is
// validated before any file is touched; a missing folder fails fast while an
// empty one yields a zero-count report.
//
// Categorization order matters: a borderline fuzzy hit is routed to
// uncertain before the duplicate and new buckets are considered, so it can
// never silently pass as either.
func (o *Orchestrator) VetFolder(ctx context.Context, folder string, threshold float64) (*Report, error) {
	if err := dedupe.ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	// Enumeration counts toward the reported scan duration.
	start := time.Now()
	paths, err := fileutil.ScanAudioFiles(folder, o.extensions)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "vetting", "scan folder", folder, err)
	}
	report := &Report{
		RunID:     uuid.NewString(),
		Folder:    folder,
		Threshold: threshold,
		CreatedAt: start.UTC(),
	}

	if len(paths) > 0 {
		batch, err := o.engine.CheckFiles(ctx, paths, threshold)
		if err != nil {
			return nil, err
		}
		policy := o.engine.Policy()
		for _, path := range paths {
			verdict := batch.Verdicts[path]
			if verdict == nil {
				verdict = dedupe.NoMatch()
			}
			switch categorize(verdict, threshold, policy) {
			case categoryUncertain:
				report.Uncertain = append(report.Uncertain, PathVerdict{Path: path, Verdict: verdict})
			case categoryDuplicate:
				report.Duplicates = append(report.Duplicates, PathVerdict{Path: path, Verdict: verdict})
			default:
				report.NewFiles = append(report.NewFiles, path)
			}
		}
	}

	report.TotalFiles = len(paths)
	report.ScanDuration = time.Since(start)

	o.logger.Info("folder vetted",
		logging.String("folder", folder),
		logging.Int("total", report.TotalFiles),
		logging.Int("duplicates", len(report.Duplicates)),
		logging.Int("new", len(report.NewFiles)),
		logging.Int("uncertain", len(report.Uncertain)),
		logging.Duration("scan_duration", report.ScanDuration))

	if o.persistRuns && o.store != nil {
		run := &library.VettingRun{
			ID:             report.RunID,
			Folder:         report.Folder,
			TotalFiles:     report.TotalFiles,
			Threshold:      report.Threshold,
			DuplicateCount: len(report.Duplicates),
			NewCount:       len(report.NewFiles),
			UncertainCount: len(report.Uncertain),
			ScanDuration:   report.ScanDuration,
			CreatedAt:      report.CreatedAt,
		}
		if err := o.store.SaveVettingRun(ctx, run); err != nil {
			return nil, err
		}
	}

	return report, nil
}

type category int

const (
	categoryNew category = iota
	categoryDuplicate
	categoryUncertain
)

func categorize(verdict *dedupe.Verdict, threshold float64, policy dedupe.Policy) category {
	certainExact := policy.Certain(verdict.Confidence) &&
		(verdict.MatchType == dedupe.MatchExactMetadata || verdict.MatchType == dedupe.MatchExactContent)
	if verdict.Confidence > 0 && verdict.Confidence < threshold && !certainExact {
		return categoryUncertain
	}
	if verdict.IsDuplicate {
		return categoryDuplicate
	}
	return categoryNew
}
