// Package grasstest provides an in-memory grass.Toolkit for tests.
package grasstest

import (
	"context"
	"sync"

	"github.com/mwiater/peaksweep/internal/grass"
)

// Recorder records every command it receives. Respond, when set, supplies
// the output (or failure) for each command; otherwise commands succeed with
// no output.
type Recorder struct {
	mu       sync.Mutex
	Commands []*grass.Command
	Respond  func(cmd *grass.Command) (string, error)
}

// Run records cmd.
func (r *Recorder) Run(ctx context.Context, cmd *grass.Command) error {
	_, err := r.Read(ctx, cmd)
	return err
}

// Read records cmd and returns the scripted output.
func (r *Recorder) Read(ctx context.Context, cmd *grass.Command) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	r.Commands = append(r.Commands, cmd)
	respond := r.Respond
	r.mu.Unlock()
	if respond == nil {
		return "", nil
	}
	return respond(cmd)
}

// Modules lists the module names received, in order.
func (r *Recorder) Modules() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Commands))
	for i, cmd := range r.Commands {
		out[i] = cmd.Module
	}
	return out
}

// Lines renders every received command as a string, in order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Commands))
	for i, cmd := range r.Commands {
		out[i] = cmd.String()
	}
	return out
}
