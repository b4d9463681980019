package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"cratekeeper/internal/vetting"
)

func newVetCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	var exportDir string

	cmd := &cobra.Command{
		Use:   "vet <folder>",
		Short: "Report which files in a folder duplicate the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Vetting.FuzzyThreshold
			}

			return ctx.withLock(func() error {
				store, err := ctx.openLibrary()
				if err != nil {
					return err
				}
				defer store.Close()

				report, err := ctx.newOrchestrator(store).VetFolder(cmd.Context(), args[0], threshold)
				if err != nil {
					return err
				}

				if exportDir != "" {
					if err := exportReport(report, exportDir); err != nil {
						return err
					}
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, report)
				}
				renderReport(cmd, report)
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Fuzzy similarity threshold for duplicates (defaults to config)")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "Write new/duplicate/uncertain path lists into this directory")
	return cmd
}

func exportReport(report *vetting.Report, dir string) error {
	if err := vetting.ExportNew(report, filepath.Join(dir, "new.txt")); err != nil {
		return err
	}
	if err := vetting.ExportDuplicates(report, filepath.Join(dir, "duplicates.txt")); err != nil {
		return err
	}
	return vetting.ExportUncertain(report, filepath.Join(dir, "uncertain.txt"))
}

func renderReport(cmd *cobra.Command, report *vetting.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"Folder", "Files", "Duplicates", "New", "Uncertain", "Threshold"},
		[][]string{{
			report.Folder,
			fmt.Sprintf("%d", report.TotalFiles),
			fmt.Sprintf("%d (%s)", len(report.Duplicates), formatPercent(report.DuplicatePercent())),
			fmt.Sprintf("%d (%s)", len(report.NewFiles), formatPercent(report.NewPercent())),
			fmt.Sprintf("%d (%s)", len(report.Uncertain), formatPercent(report.UncertainPercent())),
			formatScore(report.Threshold),
		}},
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))

	if len(report.Duplicates) > 0 {
		fmt.Fprintln(out, "\nDuplicates:")
		fmt.Fprintln(out, renderVerdicts(report.Duplicates))
	}
	if len(report.Uncertain) > 0 {
		fmt.Fprintln(out, "\nUncertain (review manually):")
		fmt.Fprintln(out, renderVerdicts(report.Uncertain))
	}
}

func renderVerdicts(entries []vetting.PathVerdict) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		matchedPath := ""
		confidence := ""
		matchType := ""
		if entry.Verdict != nil {
			matchType = string(entry.Verdict.MatchType)
			confidence = formatScore(entry.Verdict.Confidence)
			if entry.Verdict.BestMatch != nil {
				matchedPath = entry.Verdict.BestMatch.Path
			}
		}
		rows = append(rows, []string{entry.Path, matchType, confidence, matchedPath})
	}
	return renderTable(
		[]string{"File", "Match", "Confidence", "Library Record"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
}
