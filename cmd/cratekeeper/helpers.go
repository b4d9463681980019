package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// writeJSON renders v as indented JSON on the command's stdout, for the
// --json mode shared by every subcommand.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return strconv.FormatInt(bytes, 10) + " B"
	}
	value := float64(bytes)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	idx := -1
	for value >= unit && idx < len(suffixes)-1 {
		value /= unit
		idx++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[idx])
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

func formatScore(value float64) string {
	return fmt.Sprintf("%.3f", value)
}
