package appconfig

import (
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/peaksweep/internal/results"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		fmt.Fprintln(out, "  (configuration not initialized)")
		return
	}

	windows := cfg.WindowSizes
	if strings.TrimSpace(windows) == "" {
		windows = DefaultWindowSizes
	}
	thresholds := cfg.SlopeThresholds
	if strings.TrimSpace(thresholds) == "" {
		thresholds = DefaultSlopeThresholds
	}
	launcher := cfg.Launcher
	if strings.TrimSpace(launcher) == "" {
		launcher = "(modules from PATH)"
	}

	fmt.Fprintf(out, "  Elevation Map:    %s\n", cfg.DEM)
	fmt.Fprintf(out, "  Peak Points:      %s\n", cfg.Peaks)
	fmt.Fprintf(out, "  Window Sizes:     %s\n", windows)
	fmt.Fprintf(out, "  Slope Thresholds: %s\n", thresholds)
	fmt.Fprintf(out, "  Export Dir:       %s\n", cfg.ExportDir)
	fmt.Fprintf(out, "  Error Kinds:      %s\n", kindList(cfg.Selection().Requested()))
	fmt.Fprintf(out, "  Leave Maps:       %v\n", cfg.LeaveMaps)
	fmt.Fprintf(out, "  Overwrite:        %v\n", cfg.Overwrite)
	fmt.Fprintf(out, "  Reclass Cutoff:   %d\n", cfg.Cutoff())
	fmt.Fprintf(out, "  Launcher:         %s\n", launcher)
	fmt.Fprintf(out, "  Results DB:       %s\n", cfg.ResultsDB)
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
}

func kindList(kinds []results.Kind) string {
	if len(kinds) == 0 {
		return "(none)"
	}
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
