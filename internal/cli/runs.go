// internal/cli/runs.go
package peaksweep

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/peaksweep/internal/peaks"
	"github.com/mwiater/peaksweep/internal/results"
	"github.com/mwiater/peaksweep/internal/store"
	"github.com/mwiater/peaksweep/internal/util"
	"github.com/spf13/cobra"
)

// runsCmd groups commands over the run history.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Group commands for the run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil || cfg.ResultsDB == "" {
			return fmt.Errorf("--results-db is required")
		}
		db, err := store.Open(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}

		header := lipgloss.NewRenderer(out).NewStyle().Bold(true)
		fmt.Fprintln(out, header.Render(fmt.Sprintf("%s %s %s %s %s",
			util.PadRight("RUN", 36), util.PadRight("CREATED", 19), util.PadRight("DEM", 12),
			util.PadRight("PEAKS", 12), "KINDS")))
		for _, run := range runs {
			fmt.Fprintf(out, "%s %s %s %s %s\n",
				util.PadRight(run.ID, 36),
				run.CreatedAt.Format("2006-01-02 15:04:05"),
				util.PadRight(util.TruncateRunes(run.DEM, 11), 12),
				util.PadRight(util.TruncateRunes(run.Peaks, 11), 12),
				kindNames(run.Requested))
			fmt.Fprintf(out, "  windows=%s thresholds=%s\n",
				peaks.FormatIntList(run.WindowSizes), peaks.FormatIntList(run.SlopeThresholds))
		}
		return nil
	},
}

func kindNames(kinds []results.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func init() {
	runsCmd.AddCommand(runsListCmd)
	rootCmd.AddCommand(runsCmd)
}
