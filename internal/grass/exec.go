package grass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mwiater/peaksweep/internal/logging"
)

// Exec runs modules as child processes. With an empty Launcher the module
// binary is looked up on PATH, which is the case inside a GRASS shell.
// Otherwise the module is appended to the launcher, e.g.
// ["grass", "/gisdb/location/mapset", "--exec"].
type Exec struct {
	Launcher  []string
	Overwrite bool
}

// NewExec returns an Exec toolkit.
func NewExec(launcher []string, overwrite bool) *Exec {
	return &Exec{Launcher: launcher, Overwrite: overwrite}
}

// Run executes cmd and waits for it to finish.
func (e *Exec) Run(ctx context.Context, cmd *Command) error {
	_, err := e.execute(ctx, cmd)
	return err
}

// Read executes cmd and returns its standard output.
func (e *Exec) Read(ctx context.Context, cmd *Command) (string, error) {
	return e.execute(ctx, cmd)
}

func (e *Exec) commandLine(cmd *Command) (string, []string) {
	moduleArgs := cmd.Args(e.Overwrite)
	if len(e.Launcher) == 0 {
		return cmd.Module, moduleArgs
	}
	args := make([]string, 0, len(e.Launcher)+len(moduleArgs))
	args = append(args, e.Launcher[1:]...)
	args = append(args, cmd.Module)
	args = append(args, moduleArgs...)
	return e.Launcher[0], args
}

func (e *Exec) execute(ctx context.Context, cmd *Command) (string, error) {
	if cmd == nil || cmd.Module == "" {
		return "", fmt.Errorf("grass: empty command")
	}
	name, args := e.commandLine(cmd)

	proc := exec.CommandContext(ctx, name, args...)
	proc.Env = os.Environ()
	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	if err := proc.Run(); err != nil {
		gerr := &Error{Module: cmd.Module, Args: args, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			gerr.ExitCode = exitErr.ExitCode()
		}
		logging.LogCommand(cmd.Module, cmd.Args(e.Overwrite), fmt.Sprintf("failed(%v)", err))
		return "", gerr
	}
	logging.LogCommand(cmd.Module, cmd.Args(e.Overwrite), "ok")
	return stdout.String(), nil
}
