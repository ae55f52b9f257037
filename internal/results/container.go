package results

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnknownAxisValue means a window, threshold or kind is not on its axis.
	ErrUnknownAxisValue = errors.New("value not on axis")
	// ErrCellFilled means a cell was written twice.
	ErrCellFilled = errors.New("cell already populated")
	// ErrEmptyCell means a cell was read before being written.
	ErrEmptyCell = errors.New("cell not populated")
	// ErrIncomplete means a kind still has unpopulated cells.
	ErrIncomplete = errors.New("results incomplete")
)

// Container is a dense table indexed by window size, slope threshold and
// error kind. Each kind is stored as a windows × thresholds matrix whose
// empty cells hold NaN.
type Container struct {
	windows    []int
	thresholds []int
	kinds      []Kind
	grids      []*mat.Dense
}

// NewContainer allocates an empty table. Every axis must be non-empty and
// hold distinct values.
func NewContainer(windows, thresholds []int, kinds []Kind) (*Container, error) {
	if err := distinctInts("window sizes", windows); err != nil {
		return nil, err
	}
	if err := distinctInts("slope thresholds", thresholds); err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("error kinds: at least one kind is required")
	}
	seen := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("error kinds: duplicate kind %q", k)
		}
		seen[k] = struct{}{}
	}

	c := &Container{
		windows:    append([]int(nil), windows...),
		thresholds: append([]int(nil), thresholds...),
		kinds:      append([]Kind(nil), kinds...),
		grids:      make([]*mat.Dense, len(kinds)),
	}
	for i := range c.grids {
		grid := mat.NewDense(len(windows), len(thresholds), nil)
		for r := 0; r < len(windows); r++ {
			for col := 0; col < len(thresholds); col++ {
				grid.Set(r, col, math.NaN())
			}
		}
		c.grids[i] = grid
	}
	return c, nil
}

func distinctInts(axis string, values []int) error {
	if len(values) == 0 {
		return fmt.Errorf("%s: at least one value is required", axis)
	}
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return fmt.Errorf("%s: duplicate value %d", axis, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// WindowSizes returns the window axis.
func (c *Container) WindowSizes() []int { return append([]int(nil), c.windows...) }

// SlopeThresholds returns the threshold axis.
func (c *Container) SlopeThresholds() []int { return append([]int(nil), c.thresholds...) }

// Kinds returns the kind axis.
func (c *Container) Kinds() []Kind { return append([]Kind(nil), c.kinds...) }

// Has reports whether kind is on the kind axis.
func (c *Container) Has(kind Kind) bool {
	_, err := c.kindIndex(kind)
	return err == nil
}

func (c *Container) kindIndex(kind Kind) (int, error) {
	for i, k := range c.kinds {
		if k == kind {
			return i, nil
		}
	}
	return -1, fmt.Errorf("kind %q: %w", kind, ErrUnknownAxisValue)
}

func (c *Container) locate(window, threshold int, kind Kind) (int, int, *mat.Dense, error) {
	wi := indexOf(c.windows, window)
	if wi < 0 {
		return 0, 0, nil, fmt.Errorf("window size %d: %w", window, ErrUnknownAxisValue)
	}
	ti := indexOf(c.thresholds, threshold)
	if ti < 0 {
		return 0, 0, nil, fmt.Errorf("slope threshold %d: %w", threshold, ErrUnknownAxisValue)
	}
	ki, err := c.kindIndex(kind)
	if err != nil {
		return 0, 0, nil, err
	}
	return wi, ti, c.grids[ki], nil
}

func indexOf(values []int, v int) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

// Set fills the cell for (window, threshold, kind). Values are resolved against
// the axes by exact match; unknown values and second writes are rejected.
func (c *Container) Set(window, threshold int, kind Kind, value float64) error {
	wi, ti, grid, err := c.locate(window, threshold, kind)
	if err != nil {
		return err
	}
	if !math.IsNaN(grid.At(wi, ti)) {
		return fmt.Errorf("window %d, threshold %d, %s: %w", window, threshold, kind, ErrCellFilled)
	}
	if math.IsNaN(value) {
		return fmt.Errorf("window %d, threshold %d, %s: NaN is not a valid value", window, threshold, kind)
	}
	grid.Set(wi, ti, value)
	return nil
}

// SetCount fills a cell with an integer count.
func (c *Container) SetCount(window, threshold int, kind Kind, count int) error {
	return c.Set(window, threshold, kind, float64(count))
}

// Value reads a populated cell.
func (c *Container) Value(window, threshold int, kind Kind) (float64, error) {
	wi, ti, grid, err := c.locate(window, threshold, kind)
	if err != nil {
		return 0, err
	}
	v := grid.At(wi, ti)
	if math.IsNaN(v) {
		return 0, fmt.Errorf("window %d, threshold %d, %s: %w", window, threshold, kind, ErrEmptyCell)
	}
	return v, nil
}

// Count reads a populated cell as an integer count.
func (c *Container) Count(window, threshold int, kind Kind) (int, error) {
	v, err := c.Value(window, threshold, kind)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Complete returns ErrIncomplete naming the first empty cell of kind.
func (c *Container) Complete(kind Kind) error {
	ki, err := c.kindIndex(kind)
	if err != nil {
		return err
	}
	grid := c.grids[ki]
	for wi, w := range c.windows {
		for ti, t := range c.thresholds {
			if math.IsNaN(grid.At(wi, ti)) {
				return fmt.Errorf("%s: window %d, threshold %d: %w", kind, w, t, ErrIncomplete)
			}
		}
	}
	return nil
}

// Grid returns a copy of a complete kind as rows of window sizes.
func (c *Container) Grid(kind Kind) ([][]float64, error) {
	if err := c.Complete(kind); err != nil {
		return nil, err
	}
	ki, _ := c.kindIndex(kind)
	rows := make([][]float64, len(c.windows))
	for wi := range c.windows {
		rows[wi] = mat.Row(nil, wi, c.grids[ki])
	}
	return rows, nil
}

// Summarizable returns nil when the true positive, false positive and false
// negative counts are all on the table and complete.
func (c *Container) Summarizable() error {
	measured := []Kind{TruePositives, FalsePositives, FalseNegatives}
	for _, k := range measured {
		if !c.Has(k) {
			return fmt.Errorf("summarize requires %q: %w", k, ErrUnknownAxisValue)
		}
	}
	for _, k := range measured {
		if err := c.Complete(k); err != nil {
			return err
		}
	}
	return nil
}

// SummaryGrid computes the sensitivity index of every cell from the counts,
// whether or not the summarize kind is stored.
func (c *Container) SummaryGrid() ([][]float64, error) {
	if err := c.Summarizable(); err != nil {
		return nil, err
	}
	rows := make([][]float64, len(c.windows))
	for wi, w := range c.windows {
		rows[wi] = make([]float64, len(c.thresholds))
		for ti, t := range c.thresholds {
			tp, _ := c.Count(w, t, TruePositives)
			fp, _ := c.Count(w, t, FalsePositives)
			fn, _ := c.Count(w, t, FalseNegatives)
			rows[wi][ti] = SensitivityIndex(tp, fp, fn)
		}
	}
	return rows, nil
}

// Summarize derives the summarize kind from the true positive, false
// positive and false negative counts of every cell.
func (c *Container) Summarize() error {
	if !c.Has(Summarize) {
		return fmt.Errorf("summarize requires %q: %w", Summarize, ErrUnknownAxisValue)
	}
	grid, err := c.SummaryGrid()
	if err != nil {
		return err
	}
	for wi, w := range c.windows {
		for ti, t := range c.thresholds {
			if err := c.Set(w, t, Summarize, grid[wi][ti]); err != nil {
				return err
			}
		}
	}
	return nil
}
