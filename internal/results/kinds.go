// Package results holds the window size × slope threshold × error kind table
// produced by a peak parameter sweep.
package results

import (
	"fmt"
	"strings"
)

// Kind labels one slice of the results table.
type Kind string

const (
	TruePositives  Kind = "true positives"
	FalsePositives Kind = "false positives"
	FalseNegatives Kind = "false negatives"
	// Summarize is derived from the three measured kinds, never measured.
	Summarize Kind = "summarize"
)

// canonicalKinds fixes the axis order independent of flag order.
var canonicalKinds = []Kind{TruePositives, FalsePositives, FalseNegatives, Summarize}

// Measured reports whether the kind is counted by a spatial query.
func (k Kind) Measured() bool {
	return k == TruePositives || k == FalsePositives || k == FalseNegatives
}

// FileName is the CSV file name used when exporting the kind.
func (k Kind) FileName() string {
	return strings.ReplaceAll(string(k), " ", "_") + ".csv"
}

// ParseKind accepts either the label ("true positives") or its file form
// ("true_positives").
func ParseKind(s string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
	for _, k := range canonicalKinds {
		if string(k) == norm {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown error kind %q", s)
}

// Selection mirrors the kind flags a user can set.
type Selection struct {
	TruePositives  bool
	FalsePositives bool
	FalseNegatives bool
	Summarize      bool
}

// Empty reports whether no kind was selected.
func (s Selection) Empty() bool {
	return !s.TruePositives && !s.FalsePositives && !s.FalseNegatives && !s.Summarize
}

// Requested returns the selected kinds in canonical order. These are the
// kinds that get exported.
func (s Selection) Requested() []Kind {
	var kinds []Kind
	if s.TruePositives {
		kinds = append(kinds, TruePositives)
	}
	if s.FalsePositives {
		kinds = append(kinds, FalsePositives)
	}
	if s.FalseNegatives {
		kinds = append(kinds, FalseNegatives)
	}
	if s.Summarize {
		kinds = append(kinds, Summarize)
	}
	return kinds
}

// Axis returns every kind the table must hold: the requested kinds plus,
// when summarizing, all three measured kinds it is derived from.
func (s Selection) Axis() []Kind {
	if s.Summarize {
		return append([]Kind(nil), canonicalKinds...)
	}
	return s.Requested()
}

// Measure returns the kinds that need spatial queries, in canonical order.
func (s Selection) Measure() []Kind {
	var kinds []Kind
	for _, k := range s.Axis() {
		if k.Measured() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
