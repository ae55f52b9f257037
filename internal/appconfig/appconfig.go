// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"strings"

	"github.com/mwiater/peaksweep/internal/peaks"
	"github.com/mwiater/peaksweep/internal/results"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/peaksweep.json"
	// DefaultWindowSizes is the window size list used when none is configured.
	DefaultWindowSizes = "3,5,9,19,39,69"
	// DefaultSlopeThresholds is the slope threshold list used when none is configured.
	DefaultSlopeThresholds = "1,2,3,4,5,6,7,8,9,10"
	// defaultLogFile is the log path used when the config omits one.
	defaultLogFile = "peaksweep.log"
)

// Config represents the top-level application configuration.
type Config struct {
	DEM             string `json:"dem"`
	Peaks           string `json:"peaks"`
	WindowSizes     string `json:"windowSizes"`
	SlopeThresholds string `json:"slopeThresholds"`
	ExportDir       string `json:"exportDir"`
	TruePositives   bool   `json:"truePositives"`
	FalsePositives  bool   `json:"falsePositives"`
	FalseNegatives  bool   `json:"falseNegatives"`
	Summarize       bool   `json:"summarize"`
	LeaveMaps       bool   `json:"leaveMaps"`
	Overwrite       bool   `json:"overwrite"`
	ReclassCutoff   int    `json:"reclassCutoff,omitempty"`
	Launcher        string `json:"launcher,omitempty"`
	ResultsDB       string `json:"resultsDb,omitempty"`
	Debug           bool   `json:"debug"`
	LogFile         string `json:"logFile,omitempty"`
	ConfigPath      string `json:"-"`
}

// Selection returns the error kinds switched on in the config.
func (c Config) Selection() results.Selection {
	return results.Selection{
		TruePositives:  c.TruePositives,
		FalsePositives: c.FalsePositives,
		FalseNegatives: c.FalseNegatives,
		Summarize:      c.Summarize,
	}
}

// WindowSizeList parses the window size list, falling back to the default.
func (c Config) WindowSizeList() ([]int, error) {
	value := c.WindowSizes
	if strings.TrimSpace(value) == "" {
		value = DefaultWindowSizes
	}
	return peaks.ParseIntList("window sizes", value)
}

// SlopeThresholdList parses the slope threshold list, falling back to the default.
func (c Config) SlopeThresholdList() ([]int, error) {
	value := c.SlopeThresholds
	if strings.TrimSpace(value) == "" {
		value = DefaultSlopeThresholds
	}
	return peaks.ParseIntList("slope thresholds", value)
}

// Cutoff returns the reclass cutoff, applying the default if not set.
func (c Config) Cutoff() int {
	if c.ReclassCutoff <= 0 {
		return peaks.DefaultReclassCutoff
	}
	return c.ReclassCutoff
}

// LauncherArgs splits the launcher prefix into arguments. An empty result
// means modules are run directly from PATH.
func (c Config) LauncherArgs() []string {
	return strings.Fields(c.Launcher)
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// SweepOptions converts the config into options for a sweep.
func (c Config) SweepOptions() (peaks.Options, error) {
	windows, err := c.WindowSizeList()
	if err != nil {
		return peaks.Options{}, err
	}
	thresholds, err := c.SlopeThresholdList()
	if err != nil {
		return peaks.Options{}, err
	}
	return peaks.Options{
		DEM:             c.DEM,
		Peaks:           c.Peaks,
		WindowSizes:     windows,
		SlopeThresholds: thresholds,
		Selection:       c.Selection(),
		LeaveMaps:       c.LeaveMaps,
		ReclassCutoff:   c.Cutoff(),
	}, nil
}
