package grass

import (
	"context"
	"fmt"
	"strings"
)

// Toolkit executes GRASS modules. Run discards stdout; Read returns it.
type Toolkit interface {
	Run(ctx context.Context, cmd *Command) error
	Read(ctx context.Context, cmd *Command) (string, error)
}

// Error reports a module that could not be started or exited non-zero.
type Error struct {
	Module   string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failed", e.Module)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s exited with status %d", e.Module, e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// CountLines returns the number of non-blank lines in module output.
func CountLines(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
