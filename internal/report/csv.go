// Package report renders a results table as CSV files and as a console grid.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mwiater/peaksweep/internal/results"
	"github.com/mwiater/peaksweep/internal/util"
)

// Header returns the CSV header: window_size followed by one column per
// slope threshold.
func Header(thresholds []int) []string {
	header := make([]string, 0, len(thresholds)+1)
	header = append(header, "window_size")
	for _, t := range thresholds {
		header = append(header, "threshold_"+strconv.Itoa(t))
	}
	return header
}

// FormatValue renders a cell: counts as integers, the summarize index as the
// shortest decimal that round-trips.
func FormatValue(kind results.Kind, v float64) string {
	if kind.Measured() {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes one kind of a complete table, one row per window size.
func WriteCSV(w io.Writer, c *results.Container, kind results.Kind) error {
	grid, err := c.Grid(kind)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(c.SlopeThresholds())); err != nil {
		return err
	}
	for wi, window := range c.WindowSizes() {
		row := make([]string, 0, len(grid[wi])+1)
		row = append(row, strconv.Itoa(window))
		for _, v := range grid[wi] {
			row = append(row, FormatValue(kind, v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes <dir>/<kind>.csv for every kind and returns the paths
// written. The directory is created when missing.
func ExportCSV(dir string, c *results.Container, kinds []results.Kind) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("export directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	paths := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, c, kind); err != nil {
			return paths, fmt.Errorf("export %s: %w", kind, err)
		}
		path := filepath.Join(dir, kind.FileName())
		if err := util.WriteFile(path, buf.Bytes()); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
