// Package store keeps a history of completed sweeps in SQLite so their
// reports can be rendered again without rerunning the toolkit.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/peaksweep/internal/peaks"
	"github.com/mwiater/peaksweep/internal/results"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id           TEXT PRIMARY KEY,
	created_at       TEXT NOT NULL,
	dem              TEXT NOT NULL,
	peaks            TEXT NOT NULL,
	window_sizes     TEXT NOT NULL,
	slope_thresholds TEXT NOT NULL,
	axis_kinds       TEXT NOT NULL,
	requested_kinds  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cells (
	run_id          TEXT NOT NULL,
	window_size     INTEGER NOT NULL,
	slope_threshold INTEGER NOT NULL,
	kind            TEXT NOT NULL,
	value           REAL NOT NULL,
	PRIMARY KEY (run_id, window_size, slope_threshold, kind),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned when a run id is not in the history.
var ErrRunNotFound = errors.New("run not found")

// Run describes one stored sweep.
type Run struct {
	ID              string
	CreatedAt       time.Time
	DEM             string
	Peaks           string
	WindowSizes     []int
	SlopeThresholds []int
	Requested       []results.Kind
}

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores every populated cell of c under a new run id.
func (s *Store) SaveRun(run Run, c *results.Container) (Run, error) {
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()
	run.WindowSizes = c.WindowSizes()
	run.SlopeThresholds = c.SlopeThresholds()

	tx, err := s.db.Begin()
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, created_at, dem, peaks, window_sizes, slope_thresholds, axis_kinds, requested_kinds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(timeLayout), run.DEM, run.Peaks,
		peaks.FormatIntList(run.WindowSizes), peaks.FormatIntList(run.SlopeThresholds),
		joinKinds(c.Kinds()), joinKinds(run.Requested),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO cells (run_id, window_size, slope_threshold, kind, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare cells: %w", err)
	}
	defer stmt.Close()
	for _, kind := range c.Kinds() {
		for _, w := range run.WindowSizes {
			for _, t := range run.SlopeThresholds {
				v, err := c.Value(w, t, kind)
				if errors.Is(err, results.ErrEmptyCell) {
					continue
				}
				if err != nil {
					return Run{}, err
				}
				if _, err := stmt.Exec(run.ID, w, t, string(kind), v); err != nil {
					return Run{}, fmt.Errorf("insert cell: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// ListRuns returns every stored run, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, created_at, dem, peaks, window_sizes, slope_thresholds, requested_kinds
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, _, err := scanRun(rows, false)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadRun rebuilds the results table of a stored run.
func (s *Store) LoadRun(id string) (Run, *results.Container, error) {
	row := s.db.QueryRow(
		`SELECT run_id, created_at, dem, peaks, window_sizes, slope_thresholds, requested_kinds, axis_kinds
		 FROM runs WHERE run_id = ?`, id)
	run, axis, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, nil, err
	}

	c, err := results.NewContainer(run.WindowSizes, run.SlopeThresholds, axis)
	if err != nil {
		return Run{}, nil, fmt.Errorf("rebuild run %s: %w", id, err)
	}
	rows, err := s.db.Query(`SELECT window_size, slope_threshold, kind, value FROM cells WHERE run_id = ?`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("load cells: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			w, t  int
			label string
			v     float64
		)
		if err := rows.Scan(&w, &t, &label, &v); err != nil {
			return Run{}, nil, fmt.Errorf("scan cell: %w", err)
		}
		kind, err := results.ParseKind(label)
		if err != nil {
			return Run{}, nil, err
		}
		if err := c.Set(w, t, kind, v); err != nil {
			return Run{}, nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, err
	}
	return run, c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRun reads a runs row; withAxis expects the axis_kinds column last.
func scanRun(row scanner, withAxis bool) (Run, []results.Kind, error) {
	var (
		run        Run
		created    string
		windows    string
		thresholds string
		requested  string
		axis       string
	)
	dest := []any{&run.ID, &created, &run.DEM, &run.Peaks, &windows, &thresholds, &requested}
	if withAxis {
		dest = append(dest, &axis)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, nil, err
		}
		return Run{}, nil, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Run{}, nil, fmt.Errorf("run %s: created_at: %w", run.ID, err)
	}
	if run.WindowSizes, err = peaks.ParseIntList("window sizes", windows); err != nil {
		return Run{}, nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	if run.SlopeThresholds, err = peaks.ParseIntList("slope thresholds", thresholds); err != nil {
		return Run{}, nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	if run.Requested, err = splitKinds(requested); err != nil {
		return Run{}, nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	axisKinds, err := splitKinds(axis)
	if err != nil {
		return Run{}, nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	return run, axisKinds, nil
}

func joinKinds(kinds []results.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

func splitKinds(s string) ([]results.Kind, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var kinds []results.Kind
	for _, part := range strings.Split(s, ",") {
		k, err := results.ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
