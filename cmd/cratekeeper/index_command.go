package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cratekeeper/internal/dedupe"
	"cratekeeper/internal/fileutil"
	"cratekeeper/internal/library"
	"cratekeeper/internal/logging"
	"cratekeeper/internal/media"
)

type indexSummary struct {
	Folder  string `json:"folder"`
	Scanned int    `json:"scanned"`
	Indexed int    `json:"indexed"`
	Skipped int    `json:"skipped"`
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "index <folder>",
		Short: "Scan a folder and upsert its audio files into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withLock(func() error {
				store, err := ctx.openLibrary()
				if err != nil {
					return err
				}
				defer store.Close()

				extensions := fileutil.NewExtensionSet(cfg.Library.AudioExtensions)
				paths, err := fileutil.ScanAudioFiles(args[0], extensions)
				if err != nil {
					return fmt.Errorf("scan %s: %w", args[0], err)
				}

				logger := logging.NewComponentLogger(ctx.ensureLogger(), "index")
				reader := media.FilenameReader{}
				candidates := make([]*library.IndexedFile, 0, len(paths))
				skipped := 0
				for _, path := range paths {
					candidate, err := dedupe.BuildCandidate(reader, path)
					if err != nil {
						logger.Warn("skipping unreadable file",
							logging.String("path", path),
							logging.Error(err))
						skipped++
						continue
					}
					candidates = append(candidates, candidate)
				}

				indexed, err := store.BatchUpdate(cmd.Context(), candidates)
				if err != nil {
					return err
				}

				summary := indexSummary{
					Folder:  args[0],
					Scanned: len(paths),
					Indexed: indexed,
					Skipped: skipped,
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, summary)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d of %d files from %s (%d skipped)\n",
					summary.Indexed, summary.Scanned, summary.Folder, summary.Skipped)
				return nil
			})
		},
	}
}
