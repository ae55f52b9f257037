package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/peaksweep/internal/results"
	"github.com/mwiater/peaksweep/internal/util"
)

const (
	fieldWidth   = 7
	valueWidth   = 6
	labelWidth   = 3
	xLabel       = "t h r e s h o l d"
	xLabelIndent = 36
	yLabel       = "window"
	gridHeading  = "Summarized error values:"
)

// field left-justifies a value in a fixed column. Floats are truncated, not
// rounded, so the column never grows.
func field(v any) string {
	switch x := v.(type) {
	case float64:
		return util.PadRight(util.Truncate(strconv.FormatFloat(x, 'f', -1, 64), valueWidth), fieldWidth)
	case int:
		return util.PadRight(strconv.Itoa(x), fieldWidth)
	default:
		return util.PadRight(fmt.Sprint(x), fieldWidth)
	}
}

// WriteSummaryGrid prints the summarize index of every cell with the axis
// labels spelled out vertically (window) and horizontally (threshold). The
// index is derived from the counts, so the summarize kind need not be stored.
func WriteSummaryGrid(w io.Writer, c *results.Container) error {
	grid, err := c.SummaryGrid()
	if err != nil {
		return err
	}

	heading := lipgloss.NewRenderer(w).NewStyle().Bold(true)
	var b strings.Builder
	b.WriteString(heading.Render(gridHeading))
	b.WriteString("\n\n")
	b.WriteString(util.PadLeft(xLabel, xLabelIndent))
	b.WriteString("\n")

	b.WriteString(strings.Repeat(" ", labelWidth))
	b.WriteString(strings.Repeat(" ", fieldWidth))
	for _, t := range c.SlopeThresholds() {
		b.WriteString(field(t))
	}
	b.WriteString("\n")

	letters := strings.Split(yLabel, "")
	for wi, window := range c.WindowSizes() {
		if len(letters) > 0 {
			b.WriteString(util.PadRight(letters[0], labelWidth))
			letters = letters[1:]
		} else {
			b.WriteString(strings.Repeat(" ", labelWidth))
		}
		b.WriteString(field(window))
		for _, v := range grid[wi] {
			b.WriteString(field(v))
		}
		b.WriteString("\n")
	}
	for _, letter := range letters {
		b.WriteString(letter)
		b.WriteString("\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}
