// Package peaks drives the morphometric parameter sweep and validates the
// resulting peak regions against labeled peak points.
package peaks

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mwiater/peaksweep/internal/grass"
	"github.com/mwiater/peaksweep/internal/logging"
	"github.com/mwiater/peaksweep/internal/results"
)

// DefaultReclassCutoff nulls feature codes 1..5 (flat, pit, channel, pass,
// ridge) and keeps 6 (peak).
const DefaultReclassCutoff = 5

// Options configures one sweep.
type Options struct {
	DEM             string
	Peaks           string
	WindowSizes     []int
	SlopeThresholds []int
	Selection       results.Selection
	LeaveMaps       bool
	ReclassCutoff   int
	// Progress, when set, is called after each sweep or evaluation step.
	Progress func(Step)
}

// Region is the vector peak map derived for one parameter combination.
type Region struct {
	WindowSize     int
	SlopeThreshold int
	Map            string
}

// Step describes progress through a stage.
type Step struct {
	Stage  string
	Done   int
	Total  int
	Region Region
}

const (
	StageSweep    = "sweep"
	StageEvaluate = "evaluate"
)

// Analyst runs the sweep and fills a results container.
type Analyst struct {
	opts    Options
	toolkit grass.Toolkit
	results *results.Container
	regions []Region
}

// NewAnalyst validates opts and allocates the results table.
func NewAnalyst(toolkit grass.Toolkit, opts Options) (*Analyst, error) {
	if toolkit == nil {
		return nil, fmt.Errorf("peaks: toolkit is nil")
	}
	if strings.TrimSpace(opts.DEM) == "" {
		return nil, fmt.Errorf("peaks: elevation map is required")
	}
	if strings.TrimSpace(opts.Peaks) == "" {
		return nil, fmt.Errorf("peaks: labeled peak map is required")
	}
	if opts.Selection.Empty() {
		return nil, fmt.Errorf("peaks: select at least one error kind")
	}
	if err := ValidateWindowSizes(opts.WindowSizes); err != nil {
		return nil, err
	}
	if err := ValidateSlopeThresholds(opts.SlopeThresholds); err != nil {
		return nil, err
	}
	if opts.ReclassCutoff <= 0 {
		opts.ReclassCutoff = DefaultReclassCutoff
	}
	container, err := results.NewContainer(opts.WindowSizes, opts.SlopeThresholds, opts.Selection.Axis())
	if err != nil {
		return nil, err
	}
	return &Analyst{opts: opts, toolkit: toolkit, results: container}, nil
}

// Results returns the table being filled.
func (a *Analyst) Results() *results.Container { return a.results }

// Regions returns the peak regions found so far.
func (a *Analyst) Regions() []Region { return append([]Region(nil), a.regions...) }

// FeatureMap is the r.param.scale output name for a combination.
func FeatureMap(window, threshold int) string {
	return fmt.Sprintf("%d_%d", window, threshold)
}

// PeakRaster is the reclassified peak-only raster name for a combination.
func PeakRaster(window, threshold int) string {
	return FeatureMap(window, threshold) + "_peaks"
}

// PeakVector is the vector area map name for a combination.
func PeakVector(window, threshold int) string {
	return "p_" + PeakRaster(window, threshold)
}

// ReclassRules returns the r.reclass rules that keep only codes above cutoff.
func ReclassRules(cutoff int) string {
	return fmt.Sprintf("0 thru %d = NULL\n* = *\nend\n", cutoff)
}

// Run performs the sweep followed by the evaluation.
func (a *Analyst) Run(ctx context.Context) error {
	if _, err := a.FindPeaks(ctx); err != nil {
		return err
	}
	return a.Evaluate(ctx)
}

// FindPeaks classifies the DEM for every window size and slope threshold,
// keeps the peak features and converts them into vector areas.
func (a *Analyst) FindPeaks(ctx context.Context) ([]Region, error) {
	if err := a.toolkit.Run(ctx, grass.NewCommand("g.region").Set("raster", a.opts.DEM)); err != nil {
		return nil, fmt.Errorf("set region to %s: %w", a.opts.DEM, err)
	}

	rules, err := writeRules(a.opts.ReclassCutoff)
	if err != nil {
		return nil, err
	}
	defer os.Remove(rules)

	a.regions = a.regions[:0]
	total := len(a.opts.WindowSizes) * len(a.opts.SlopeThresholds)
	for _, window := range a.opts.WindowSizes {
		for _, threshold := range a.opts.SlopeThresholds {
			region, err := a.extract(ctx, window, threshold, rules)
			if err != nil {
				return nil, fmt.Errorf("window %d, threshold %d: %w", window, threshold, err)
			}
			a.regions = append(a.regions, region)
			a.report(Step{Stage: StageSweep, Done: len(a.regions), Total: total, Region: region})
		}
	}
	return a.Regions(), nil
}

func writeRules(cutoff int) (string, error) {
	f, err := os.CreateTemp("", "peaksweep-reclass-*.txt")
	if err != nil {
		return "", fmt.Errorf("create reclass rules: %w", err)
	}
	if _, err := f.WriteString(ReclassRules(cutoff)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write reclass rules: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close reclass rules: %w", err)
	}
	return f.Name(), nil
}

func (a *Analyst) extract(ctx context.Context, window, threshold int, rules string) (Region, error) {
	featureMap := FeatureMap(window, threshold)
	peakRaster := PeakRaster(window, threshold)
	peakVector := PeakVector(window, threshold)

	steps := []*grass.Command{
		grass.NewCommand("r.param.scale").
			Set("input", a.opts.DEM).
			Set("output", featureMap).
			Set("slope_tolerance", threshold).
			Set("size", window).
			Set("method", "feature"),
		grass.NewCommand("r.reclass").
			Set("input", featureMap).
			Set("output", peakRaster).
			Set("rules", rules),
		grass.NewCommand("r.to.vect").
			Set("input", peakRaster).
			Set("output", peakVector).
			Set("type", "area"),
	}
	for _, cmd := range steps {
		if err := a.toolkit.Run(ctx, cmd); err != nil {
			return Region{}, fmt.Errorf("%s: %w", cmd.Module, err)
		}
	}

	if !a.opts.LeaveMaps {
		// the reclass raster references the feature map, so it goes first
		remove := grass.NewCommand("g.remove").Flag("f").
			Set("type", "raster").
			Set("name", peakRaster+","+featureMap)
		if err := a.toolkit.Run(ctx, remove); err != nil {
			return Region{}, fmt.Errorf("%s: %w", remove.Module, err)
		}
	}

	logging.LogEvent("Extracted peak areas %s (window=%d, slope threshold=%d)", peakVector, window, threshold)
	return Region{WindowSize: window, SlopeThreshold: threshold, Map: peakVector}, nil
}

func (a *Analyst) report(step Step) {
	if a.opts.Progress != nil {
		a.opts.Progress(step)
	}
}
