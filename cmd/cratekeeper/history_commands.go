package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cratekeeper/internal/fileutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the reviewed-filename history",
	}

	historyCmd.AddCommand(newHistoryAddCommand(ctx))
	historyCmd.AddCommand(newHistoryCheckCommand(ctx))
	historyCmd.AddCommand(newHistoryCountCommand(ctx))

	return historyCmd
}

func newHistoryAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <folder>",
		Short: "Record every audio filename under a folder as reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				store, err := ctx.openHistory()
				if err != nil {
					return err
				}
				defer store.Close()

				added, err := store.AddFolder(cmd.Context(), args[0],
					fileutil.NewExtensionSet(cfg.Library.AudioExtensions))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"folder": args[0], "added": added})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d new filenames from %s\n", added, args[0])
				return nil
			})
		},
	}
}

func newHistoryCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <folder>",
		Short: "List files under a folder whose filename was already reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			matches, err := store.CheckFolder(cmd.Context(), args[0],
				fileutil.NewExtensionSet(cfg.Library.AudioExtensions))
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, matches)
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(out, "No previously reviewed files found")
				return nil
			}
			rows := make([][]string, 0, len(matches))
			for _, match := range matches {
				rows = append(rows, []string{
					match.Path,
					match.Entry.SourcePath,
					match.Entry.AddedAt.Format("2006-01-02"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Original Path", "Reviewed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newHistoryCountCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show how many filenames are recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"count": count})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d filenames recorded\n", count)
			return nil
		},
	}
}
