// internal/cli/cli_test.go
package peaksweep

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/mwiater/peaksweep/internal/appconfig"
	"github.com/mwiater/peaksweep/internal/grass"
	"github.com/mwiater/peaksweep/internal/grass/grasstest"
	"github.com/mwiater/peaksweep/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag in the tree so one test's flags do not leak
// into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeTempConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "peaksweep.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	currentConfig = nil
	t.Cleanup(func() { _ = logging.Close() })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// counts answers v.db.select for a 2x2 sweep over windows 3,5 and thresholds 1,2.
var counts = map[string]map[string]int{
	"true_positives":  {"p_3_1_peaks": 10, "p_3_2_peaks": 8, "p_5_1_peaks": 6, "p_5_2_peaks": 4},
	"false_positives": {"p_3_1_peaks": 1, "p_3_2_peaks": 2, "p_5_1_peaks": 0, "p_5_2_peaks": 1},
	"false_negatives": {"p_3_1_peaks": 0, "p_3_2_peaks": 1, "p_5_1_peaks": 2, "p_5_2_peaks": 3},
}

func fakeToolkit(t *testing.T) *grasstest.Recorder {
	t.Helper()
	last := map[string]string{}
	rec := &grasstest.Recorder{Respond: func(cmd *grass.Command) (string, error) {
		switch cmd.Module {
		case "v.select":
			out, _ := cmd.Get("output")
			region, _ := cmd.Get("ainput")
			if out == "false_negatives" {
				region, _ = cmd.Get("binput")
			}
			last[out] = region
		case "v.db.select":
			m, _ := cmd.Get("map")
			return strings.Repeat("1\n", counts[m][last[m]]), nil
		}
		return "", nil
	}}
	orig := newToolkit
	newToolkit = func(appconfig.Config) grass.Toolkit { return rec }
	t.Cleanup(func() { newToolkit = orig })
	return rec
}

func TestRootUnknownCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempConfig(t, dir, "{}")
	_, err := executeCLI(t, "bogus", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "bogus" for "peaksweep"`)
}

func TestMissingExplicitConfigFails(t *testing.T) {
	_, err := executeCLI(t, "show", "config", "--config", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestSweepEndToEnd(t *testing.T) {
	dir := t.TempDir()
	exportDir := filepath.Join(dir, "out")
	dbPath := filepath.Join(dir, "runs.db")
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"dem": "elevation", "peaks": "training", "logFile": %q}`,
		filepath.Join(dir, "peaksweep.log")))
	rec := fakeToolkit(t)

	out, err := executeCLI(t, "sweep", "--config", cfg,
		"--window-sizes", "3,5", "--slope-thresholds", "1,2",
		"--export-dir", exportDir, "--results-db", dbPath, "-s")
	require.NoError(t, err)

	assert.Contains(t, out, "Finding peaks")
	assert.Contains(t, out, "Extracting error values...")
	assert.Contains(t, out, "Writing results to file...")
	assert.Contains(t, out, "Summarized error values:")
	assert.Contains(t, out, "w  3      0.9    0.6666 ")
	assert.Contains(t, out, "i  5      0.75   0.4285 ")

	assert.Equal(t, "g.region", rec.Modules()[0])

	// summarize requested alone still writes only its own file
	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(exportDir, "summarize.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "window_size,threshold_1,threshold_2\n3,0.9,"))

	m := regexp.MustCompile(`Run saved: (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	runID := m[1]

	listed, err := executeCLI(t, "runs", "list", "--config", cfg, "--results-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, listed, runID)
	assert.Contains(t, listed, "windows=3,5 thresholds=1,2")

	reportDir := filepath.Join(dir, "again")
	reported, err := executeCLI(t, "report", runID, "--config", cfg, "--results-db", dbPath, "--export-dir", reportDir)
	require.NoError(t, err)
	assert.Contains(t, reported, "Summarized error values:")
	again, err := os.ReadFile(filepath.Join(reportDir, "summarize.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestSweepCountsWithoutSummarize(t *testing.T) {
	dir := t.TempDir()
	exportDir := filepath.Join(dir, "out")
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"dem": "elevation", "peaks": "training", "exportDir": %q, "windowSizes": "3,5", "slopeThresholds": "1,2", "logFile": %q}`,
		exportDir, filepath.Join(dir, "peaksweep.log")))
	fakeToolkit(t)

	out, err := executeCLI(t, "sweep", "--config", cfg, "-n", "-t")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary grid needs")
	assert.NotContains(t, out, "Summarized error values:")

	tp, err := os.ReadFile(filepath.Join(exportDir, "true_positives.csv"))
	require.NoError(t, err)
	assert.Equal(t, "window_size,threshold_1,threshold_2\n3,10,8\n5,6,4\n", string(tp))
	fn, err := os.ReadFile(filepath.Join(exportDir, "false_negatives.csv"))
	require.NoError(t, err)
	assert.Equal(t, "window_size,threshold_1,threshold_2\n3,0,1\n5,2,3\n", string(fn))
	_, err = os.Stat(filepath.Join(exportDir, "false_positives.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestSweepAllCountsPrintsGrid(t *testing.T) {
	dir := t.TempDir()
	exportDir := filepath.Join(dir, "out")
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"dem": "elevation", "peaks": "training", "logFile": %q}`,
		filepath.Join(dir, "peaksweep.log")))
	fakeToolkit(t)

	out, err := executeCLI(t, "sweep", "--config", cfg,
		"--window-sizes", "3,5", "--slope-thresholds", "1,2",
		"--export-dir", exportDir, "-t", "-f", "-n")
	require.NoError(t, err)
	assert.Contains(t, out, "Summarized error values:")
	assert.Contains(t, out, "w  3      0.9    0.6666 ")
	assert.Contains(t, out, "i  5      0.75   0.4285 ")
	assert.NotContains(t, out, "Summary grid needs")

	// the index is shown, not exported
	_, err = os.Stat(filepath.Join(exportDir, "summarize.csv"))
	assert.True(t, os.IsNotExist(err))
	for _, name := range []string{"true_positives.csv", "false_positives.csv", "false_negatives.csv"} {
		_, err := os.Stat(filepath.Join(exportDir, name))
		assert.NoError(t, err, name)
	}
}

func TestSweepRequiresKind(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"logFile": %q}`, filepath.Join(dir, "peaksweep.log")))
	fakeToolkit(t)

	_, err := executeCLI(t, "sweep", "--config", cfg, "--dem", "elevation", "--peaks", "training", "--export-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select at least one of")
}

func TestSweepRejectsEvenWindow(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"logFile": %q}`, filepath.Join(dir, "peaksweep.log")))
	rec := fakeToolkit(t)

	_, err := executeCLI(t, "sweep", "--config", cfg, "--dem", "elevation", "--peaks", "training",
		"--export-dir", dir, "--window-sizes", "3,4", "-t")
	require.Error(t, err)
	assert.Empty(t, rec.Modules())
}

func TestSweepToolkitFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"logFile": %q}`, filepath.Join(dir, "peaksweep.log")))
	rec := fakeToolkit(t)
	rec.Respond = func(cmd *grass.Command) (string, error) {
		if cmd.Module == "r.to.vect" {
			return "", &grass.Error{Module: cmd.Module, ExitCode: 1, Stderr: "no such map"}
		}
		return "", nil
	}

	_, err := executeCLI(t, "sweep", "--config", cfg, "--dem", "elevation", "--peaks", "training",
		"--export-dir", filepath.Join(dir, "out"), "--window-sizes", "3", "--slope-thresholds", "1", "-t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "r.to.vect")
	_, statErr := os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sweepDir := filepath.Join(dir, "sweep")
	dbPath := filepath.Join(dir, "runs.db")
	fallbackDir := filepath.Join(dir, "configured")
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"dem": "elevation", "peaks": "training", "exportDir": %q, "resultsDb": %q, "logFile": %q}`,
		fallbackDir, dbPath, filepath.Join(dir, "peaksweep.log")))
	fakeToolkit(t)

	out, err := executeCLI(t, "sweep", "--config", cfg,
		"--window-sizes", "3,5", "--slope-thresholds", "1,2",
		"--export-dir", sweepDir, "-t", "-s")
	require.NoError(t, err)
	m := regexp.MustCompile(`Run saved: (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	runID := m[1]

	// --export-dir overrides the configured directory
	overrideDir := filepath.Join(dir, "override")
	reported, err := executeCLI(t, "report", runID, "--config", cfg, "--export-dir", overrideDir)
	require.NoError(t, err)
	assert.Contains(t, reported, runID)
	assert.Contains(t, reported, "w  3      0.9    0.6666 ")
	for _, name := range []string{"true_positives.csv", "summarize.csv"} {
		want, err := os.ReadFile(filepath.Join(sweepDir, name))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(overrideDir, name))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), name)
	}
	_, err = os.Stat(fallbackDir)
	assert.True(t, os.IsNotExist(err))

	// without the flag the configured directory is used
	_, err = executeCLI(t, "report", runID, "--config", cfg)
	require.NoError(t, err)
	entries, err := os.ReadDir(fallbackDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	listed, err := executeCLI(t, "runs", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, listed, runID)
	assert.Contains(t, listed, "true positives, summarize")
}

func TestReportUnknownRun(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"logFile": %q}`, filepath.Join(dir, "peaksweep.log")))
	_, err := executeCLI(t, "report", "nope", "--config", cfg,
		"--results-db", filepath.Join(dir, "runs.db"), "--export-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestShowConfigMergesFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"dem": "elevation", "logFile": %q}`, filepath.Join(dir, "peaksweep.log")))

	out, err := executeCLI(t, "show", "config", "--config", cfg, "--launcher", "grass /gisdb/loc/PERMANENT --exec")
	require.NoError(t, err)
	assert.Contains(t, out, "elevation")
	assert.Contains(t, out, "grass /gisdb/loc/PERMANENT --exec")
	require.NotNil(t, GetConfig())
	assert.Equal(t, cfg, GetConfig().ConfigPath)
}

func TestListCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempConfig(t, dir, fmt.Sprintf(`{"logFile": %q}`, filepath.Join(dir, "peaksweep.log")))

	out, err := executeCLI(t, "list", "commands", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Commands and Subcommands:")
	assert.Contains(t, out, "peaksweep sweep")
	assert.Contains(t, out, "peaksweep runs list")
	assert.NotContains(t, out, "completion")
}
