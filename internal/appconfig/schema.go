package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the merged configuration before a run starts.
const configSchema = `{
  "type": "object",
  "properties": {
    "dem":             {"type": "string"},
    "peaks":           {"type": "string"},
    "windowSizes":     {"type": "string", "pattern": "^\\s*$|^\\s*-?\\d+\\s*(,\\s*-?\\d+\\s*)*$"},
    "slopeThresholds": {"type": "string", "pattern": "^\\s*$|^\\s*-?\\d+\\s*(,\\s*-?\\d+\\s*)*$"},
    "exportDir":       {"type": "string"},
    "reclassCutoff":   {"type": "integer", "minimum": 0, "maximum": 5},
    "launcher":        {"type": "string"},
    "resultsDb":       {"type": "string"},
    "logFile":         {"type": "string"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(configSchema)

// Validate checks cfg against the configuration schema.
func Validate(cfg Config) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(cfg))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("configuration failed validation: %s", strings.Join(details, "; "))
}

// ValidateForSweep checks that cfg carries everything a sweep needs.
func ValidateForSweep(cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	var missing []string
	if strings.TrimSpace(cfg.DEM) == "" {
		missing = append(missing, "dem")
	}
	if strings.TrimSpace(cfg.Peaks) == "" {
		missing = append(missing, "peaks")
	}
	if strings.TrimSpace(cfg.ExportDir) == "" {
		missing = append(missing, "export-dir")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if cfg.Selection().Empty() {
		return fmt.Errorf("select at least one of -t, -f, -n or -s")
	}
	return nil
}
