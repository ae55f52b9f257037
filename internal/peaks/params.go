package peaks

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIntList parses a comma separated list such as "3, 5, 9". Items are
// trimmed; empty items, non-integers and duplicates are rejected.
func ParseIntList(name, s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%s: list is empty", name)
	}
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))
	for i, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			return nil, fmt.Errorf("%s: item %d is empty", name, i+1)
		}
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q: %w", name, item, err)
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("%s: duplicate value %d", name, v)
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values, nil
}

// FormatIntList is the inverse of ParseIntList.
func FormatIntList(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// ValidateWindowSizes checks that every window is an odd size of at least 3.
func ValidateWindowSizes(windows []int) error {
	for _, w := range windows {
		if w < 3 || w%2 == 0 {
			return fmt.Errorf("window size %d: must be an odd number >= 3", w)
		}
	}
	return nil
}

// ValidateSlopeThresholds checks that no threshold is negative.
func ValidateSlopeThresholds(thresholds []int) error {
	for _, t := range thresholds {
		if t < 0 {
			return fmt.Errorf("slope threshold %d: must be >= 0", t)
		}
	}
	return nil
}
