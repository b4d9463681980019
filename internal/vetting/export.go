package vetting

import (
	"strings"

	"cratekeeper/internal/fileutil"
	"cratekeeper/internal/services"
)

// ExportNew writes the new-file paths to a text artifact, one per line.
func ExportNew(report *Report, path string) error {
	if err := validateExport(report, path, "export new"); err != nil {
		return err
	}
	return fileutil.WriteLines(path, report.NewFiles)
}

// ExportDuplicates writes the duplicate paths to a text artifact.
func ExportDuplicates(report *Report, path string) error {
	if err := validateExport(report, path, "export duplicates"); err != nil {
		return err
	}
	return fileutil.WriteLines(path, verdictPaths(report.Duplicates))
}

// ExportUncertain writes the uncertain paths to a text artifact.
func ExportUncertain(report *Report, path string) error {
	if err := validateExport(report, path, "export uncertain"); err != nil {
		return err
	}
	return fileutil.WriteLines(path, verdictPaths(report.Uncertain))
}

func validateExport(report *Report, path, operation string) error {
	if report == nil {
		return services.Wrap(services.ErrValidation, "vetting", operation, "report is nil", nil)
	}
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrValidation, "vetting", operation, "output path is required", nil)
	}
	return nil
}

func verdictPaths(entries []PathVerdict) []string {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	return paths
}
