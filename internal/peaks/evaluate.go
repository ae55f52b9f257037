package peaks

import (
	"context"
	"fmt"

	"github.com/mwiater/peaksweep/internal/grass"
	"github.com/mwiater/peaksweep/internal/logging"
	"github.com/mwiater/peaksweep/internal/results"
)

// selection is the v.select query that isolates one error kind.
type selection struct {
	output   string
	operator string
	// pointsFirst selects labeled points against a region instead of
	// regions against the labeled points.
	pointsFirst bool
}

var selections = map[results.Kind]selection{
	results.TruePositives:  {output: "true_positives", operator: "overlap"},
	results.FalsePositives: {output: "false_positives", operator: "disjoint"},
	results.FalseNegatives: {output: "false_negatives", operator: "disjoint", pointsFirst: true},
}

// Evaluate counts every requested error kind for every region found by
// FindPeaks, then derives the summarize index when it was requested.
func (a *Analyst) Evaluate(ctx context.Context) error {
	if len(a.regions) == 0 {
		return fmt.Errorf("peaks: no regions to evaluate; run FindPeaks first")
	}
	kinds := a.opts.Selection.Measure()
	total := len(kinds) * len(a.regions)
	done := 0
	for _, kind := range kinds {
		for _, region := range a.regions {
			count, err := a.count(ctx, kind, region)
			if err != nil {
				return fmt.Errorf("%s for %s: %w", kind, region.Map, err)
			}
			if err := a.results.SetCount(region.WindowSize, region.SlopeThreshold, kind, count); err != nil {
				return err
			}
			done++
			a.report(Step{Stage: StageEvaluate, Done: done, Total: total, Region: region})
		}
	}
	if a.opts.Selection.Summarize {
		if err := a.results.Summarize(); err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
	}
	return nil
}

// count runs the spatial selection for kind and returns the number of
// selected features.
func (a *Analyst) count(ctx context.Context, kind results.Kind, region Region) (int, error) {
	sel, ok := selections[kind]
	if !ok {
		return 0, fmt.Errorf("%q is not a measured error kind", kind)
	}
	ainput, binput := region.Map, a.opts.Peaks
	if sel.pointsFirst {
		ainput, binput = a.opts.Peaks, region.Map
	}

	query := grass.NewCommand("v.select").
		Set("ainput", ainput).
		Set("binput", binput).
		Set("output", sel.output).
		Set("operator", sel.operator)
	if err := a.toolkit.Run(ctx, query); err != nil {
		return 0, fmt.Errorf("%s: %w", query.Module, err)
	}

	list := grass.NewCommand("v.db.select").Flag("c").
		Set("map", sel.output).
		Set("columns", "cat")
	out, err := a.toolkit.Read(ctx, list)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", list.Module, err)
	}

	remove := grass.NewCommand("g.remove").Flag("f").
		Set("type", "vector").
		Set("name", sel.output)
	if err := a.toolkit.Run(ctx, remove); err != nil {
		return 0, fmt.Errorf("%s: %w", remove.Module, err)
	}

	count := grass.CountLines(out)
	logging.LogEvent("%s: window=%d slope threshold=%d count=%d", kind, region.WindowSize, region.SlopeThreshold, count)
	return count, nil
}
