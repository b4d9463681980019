package vetting

import (
	"time"

	"cratekeeper/internal/dedupe"
)

// PathVerdict pairs a scanned path with its verdict.
type PathVerdict struct {
	Path    string          `json:"path"`
	Verdict *dedupe.Verdict `json:"verdict"`
}

// Report is the immutable outcome of vetting one folder. Every scanned file
// lands in exactly one of Duplicates, NewFiles, or Uncertain.
type Report struct {
	RunID        string        `json:"run_id"`
	Folder       string        `json:"folder"`
	TotalFiles   int           `json:"total_files"`
	Threshold    float64       `json:"threshold"`
	Duplicates   []PathVerdict `json:"duplicates"`
	NewFiles     []string      `json:"new_files"`
	Uncertain    []PathVerdict `json:"uncertain"`
	ScanDuration time.Duration `json:"scan_duration"`
	CreatedAt    time.Time     `json:"created_at"`
}

// DuplicatePercent is the duplicate share of scanned files; 0 for an empty scan.
func (r *Report) DuplicatePercent() float64 {
	return percent(len(r.Duplicates), r.TotalFiles)
}

// NewPercent is the new-file share of scanned files; 0 for an empty scan.
func (r *Report) NewPercent() float64 {
	return percent(len(r.NewFiles), r.TotalFiles)
}

// UncertainPercent is the uncertain share of scanned files; 0 for an empty scan.
func (r *Report) UncertainPercent() float64 {
	return percent(len(r.Uncertain), r.TotalFiles)
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
