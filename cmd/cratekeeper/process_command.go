package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"cratekeeper/internal/fileutil"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	var record bool
	var copyTo string

	cmd := &cobra.Command{
		Use:   "process <folder>",
		Short: "Vet a folder and filter the new files through the review history",
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

				historyStore, err := ctx.openHistory()
				if err != nil {
					return err
				}
				defer historyStore.Close()

				result, err := ctx.newCoordinator(store, historyStore).
					ProcessFolder(cmd.Context(), args[0], threshold, record)
				if err != nil {
					return err
				}

				copied := 0
				if copyTo != "" {
					for _, src := range result.TrulyNew {
						if err := fileutil.CopyFile(src, filepath.Join(copyTo, filepath.Base(src))); err != nil {
							return fmt.Errorf("copy %s: %w", src, err)
						}
						copied++
					}
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, result)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"Folder", "Duplicates", "Already Reviewed", "Truly New", "Uncertain"},
					[][]string{{
						args[0],
						fmt.Sprintf("%d", len(result.Duplicates)),
						fmt.Sprintf("%d", len(result.AlreadyReviewed)),
						fmt.Sprintf("%d", len(result.TrulyNew)),
						fmt.Sprintf("%d", len(result.Report.Uncertain)),
					}},
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				for _, path := range result.TrulyNew {
					fmt.Fprintf(out, "new: %s\n", path)
				}
				for _, match := range result.AlreadyReviewed {
					fmt.Fprintf(out, "reviewed %s: %s\n",
						match.Entry.AddedAt.Format("2006-01-02"), match.Path)
				}
				if copyTo != "" {
					fmt.Fprintf(out, "Copied %d new files to %s\n", copied, copyTo)
				}
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Fuzzy similarity threshold for duplicates (defaults to config)")
	cmd.Flags().BoolVar(&record, "record", false, "Record truly-new filenames in the review history")
	cmd.Flags().StringVar(&copyTo, "copy-to", "", "Copy truly-new files into this directory")
	return cmd
}
