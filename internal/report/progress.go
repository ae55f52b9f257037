package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mwiater/peaksweep/internal/peaks"
)

// Progress prints one bar line per completed sweep or evaluation step.
type Progress struct {
	out io.Writer
	bar progress.Model
}

// NewProgress renders progress to out.
func NewProgress(out io.Writer) *Progress {
	return &Progress{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

// Step is shaped to plug into peaks.Options.Progress.
func (p *Progress) Step(step peaks.Step) {
	if p == nil || p.out == nil || step.Total <= 0 {
		return
	}
	fraction := float64(step.Done) / float64(step.Total)
	fmt.Fprintf(p.out, "%-8s %s %d/%d %s\n", step.Stage, p.bar.ViewAs(fraction), step.Done, step.Total, step.Region.Map)
}
