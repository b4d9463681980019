package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var runs int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openLibrary()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Statistics(cmd.Context())
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				payload := map[string]any{"statistics": stats}
				if runs > 0 {
					recent, err := store.VettingRuns(cmd.Context(), runs)
					if err != nil {
						return err
					}
					payload["recent_runs"] = recent
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Active Files", "Total Size", "Artists", "Albums"},
				[][]string{{
					fmt.Sprintf("%d", stats.TotalFiles),
					formatBytes(stats.TotalBytes),
					fmt.Sprintf("%d", stats.DistinctArtists),
					fmt.Sprintf("%d", stats.DistinctAlbums),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))

			if len(stats.ByFormat) > 0 {
				formats := make([]string, 0, len(stats.ByFormat))
				for format := range stats.ByFormat {
					formats = append(formats, format)
				}
				sort.Strings(formats)
				rows := make([][]string, 0, len(formats))
				for _, format := range formats {
					rows = append(rows, []string{format, fmt.Sprintf("%d", stats.ByFormat[format])})
				}
				fmt.Fprintln(out, "\nBy format:")
				fmt.Fprintln(out, renderTable(
					[]string{"Format", "Files"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}

			if runs > 0 {
				recent, err := store.VettingRuns(cmd.Context(), runs)
				if err != nil {
					return err
				}
				if len(recent) > 0 {
					rows := make([][]string, 0, len(recent))
					for _, run := range recent {
						rows = append(rows, []string{
							run.CreatedAt.Format("2006-01-02 15:04"),
							run.Folder,
							fmt.Sprintf("%d", run.TotalFiles),
							fmt.Sprintf("%d", run.DuplicateCount),
							fmt.Sprintf("%d", run.NewCount),
							fmt.Sprintf("%d", run.UncertainCount),
						})
					}
					fmt.Fprintln(out, "\nRecent vetting runs:")
					fmt.Fprintln(out, renderTable(
						[]string{"When", "Folder", "Files", "Dup", "New", "Unc"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
					))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 0, "Also show the N most recent vetting runs")
	return cmd
}
