// internal/cli/sweep.go
package peaksweep

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/mwiater/peaksweep/internal/appconfig"
	"github.com/mwiater/peaksweep/internal/grass"
	"github.com/mwiater/peaksweep/internal/logging"
	"github.com/mwiater/peaksweep/internal/peaks"
	"github.com/mwiater/peaksweep/internal/report"
	"github.com/mwiater/peaksweep/internal/results"
	"github.com/mwiater/peaksweep/internal/store"
	"github.com/spf13/cobra"
)

// newToolkit builds the GRASS client for a run. Tests replace it.
var newToolkit = func(cfg appconfig.Config) grass.Toolkit {
	return grass.NewExec(cfg.LauncherArgs(), cfg.Overwrite)
}

var (
	bannerColor = color.New(color.FgCyan, color.Bold)
	noticeColor = color.New(color.FgYellow)
)

// sweepCmd runs the parameter sweep, the validation and the reports.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep window sizes and slope thresholds and score the detected peaks",
	Long: `Runs r.param.scale for every window size and slope threshold, keeps the
peak features as vector areas, compares them with the labeled peak points and
writes the requested error values as CSV files.`,
	Example: `  peaksweep sweep --dem elev --peaks summits --export-dir out -s
  peaksweep sweep --dem elev --peaks summits --export-dir out -t -f --window-sizes 3,5,9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		return runSweep(cmd, *cfg)
	},
}

func init() {
	flags := sweepCmd.Flags()
	flags.String("dem", "", "elevation raster map")
	flags.String("peaks", "", "vector point map of labeled peaks")
	flags.String("window-sizes", appconfig.DefaultWindowSizes, "comma separated odd window sizes")
	flags.String("slope-thresholds", appconfig.DefaultSlopeThresholds, "comma separated slope thresholds")
	flags.String("export-dir", "", "directory for the CSV files")
	flags.BoolP("true-positives", "t", false, "count true positives")
	flags.BoolP("false-positives", "f", false, "count false positives")
	flags.BoolP("false-negatives", "n", false, "count false negatives")
	flags.BoolP("summarize", "s", false, "derive the sensitivity index (implies -t -f -n)")
	flags.BoolP("leave-maps", "l", false, "keep the intermediate feature and peak rasters")
	flags.Bool("overwrite", false, "pass --overwrite to modules that write maps")
	flags.Int("reclass-cutoff", 0, "highest feature code dropped before vectorizing (default 5)")

	bindFlag(flags, "dem", "dem")
	bindFlag(flags, "peaks", "peaks")
	bindFlag(flags, "windowSizes", "window-sizes")
	bindFlag(flags, "slopeThresholds", "slope-thresholds")
	bindFlag(flags, "exportDir", "export-dir")
	bindFlag(flags, "truePositives", "true-positives")
	bindFlag(flags, "falsePositives", "false-positives")
	bindFlag(flags, "falseNegatives", "false-negatives")
	bindFlag(flags, "summarize", "summarize")
	bindFlag(flags, "leaveMaps", "leave-maps")
	bindFlag(flags, "overwrite", "overwrite")
	bindFlag(flags, "reclassCutoff", "reclass-cutoff")

	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, cfg appconfig.Config) error {
	out := cmd.OutOrStdout()
	if err := appconfig.ValidateForSweep(cfg); err != nil {
		return err
	}
	opts, err := cfg.SweepOptions()
	if err != nil {
		return err
	}
	opts.Progress = report.NewProgress(out).Step

	analyst, err := peaks.NewAnalyst(newToolkit(cfg), opts)
	if err != nil {
		return err
	}
	if cfg.Debug {
		pp.Fprintln(out, opts)
	}
	logging.LogEvent("sweep started dem=%s peaks=%s windows=%v thresholds=%v",
		opts.DEM, opts.Peaks, opts.WindowSizes, opts.SlopeThresholds)

	ctx := cmd.Context()
	bannerColor.Fprintln(out, "Finding peaks")
	regions, err := analyst.FindPeaks(ctx)
	if err != nil {
		return err
	}
	if cfg.Debug {
		pp.Fprintln(out, regions)
	}

	bannerColor.Fprintln(out, "Extracting error values...")
	if err := analyst.Evaluate(ctx); err != nil {
		return err
	}

	requested := opts.Selection.Requested()
	if err := renderResults(out, analyst.Results(), requested, cfg.ExportDir); err != nil {
		return err
	}

	if cfg.ResultsDB != "" {
		db, err := store.Open(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer db.Close()
		run, err := db.SaveRun(store.Run{DEM: opts.DEM, Peaks: opts.Peaks, Requested: requested}, analyst.Results())
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(out, "Run saved: %s\n", run.ID)
		logging.LogEvent("run %s saved to %s", run.ID, cfg.ResultsDB)
	}
	logging.LogEvent("sweep finished")
	return nil
}

// renderResults writes the CSV files for requested into dir and prints the
// summary grid when all three counts were measured.
func renderResults(out io.Writer, c *results.Container, requested []results.Kind, dir string) error {
	bannerColor.Fprintln(out, "Writing results to file...")
	paths, err := report.ExportCSV(dir, c, requested)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(out, "  %s\n", path)
	}
	fmt.Fprintln(out)

	if err := c.Summarizable(); err != nil {
		noticeColor.Fprintln(out, "Summary grid needs true positives, false positives and false negatives (use -s or -t -f -n).")
		return nil
	}
	return report.WriteSummaryGrid(out, c)
}
