// internal/cli/report.go
package peaksweep

import (
	"fmt"

	"github.com/mwiater/peaksweep/internal/store"
	"github.com/spf13/cobra"
)

var reportExportDir string

// reportCmd re-renders a stored run.
var reportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Rewrite the CSV files and summary grid of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		if cfg.ResultsDB == "" {
			return fmt.Errorf("--results-db is required")
		}
		dir := reportExportDir
		if dir == "" {
			dir = cfg.ExportDir
		}
		if dir == "" {
			return fmt.Errorf("--export-dir is required")
		}

		db, err := store.Open(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer db.Close()

		run, container, err := db.LoadRun(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s (%s, dem=%s, peaks=%s)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.DEM, run.Peaks)
		return renderResults(out, container, run.Requested, dir)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportExportDir, "export-dir", "", "directory for the CSV files (defaults to the configured one)")
	rootCmd.AddCommand(reportCmd)
}
