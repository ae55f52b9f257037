// Package grass wraps GRASS GIS module invocations.
//
// Every module call is described by a Command and executed by a Toolkit.
// GRASS keeps the computational region and the named maps of the current
// mapset as shared session state, so callers issue commands one at a time.
package grass

import (
	"fmt"
	"strings"
)

// Param is a single key=value module option.
type Param struct {
	Key   string
	Value string
}

// Command describes one GRASS module invocation.
type Command struct {
	Module string
	Flags  string
	Params []Param
}

// NewCommand starts a command for the named module.
func NewCommand(module string) *Command {
	return &Command{Module: module}
}

// Set appends an option. Values are formatted with %v.
func (c *Command) Set(key string, value any) *Command {
	c.Params = append(c.Params, Param{Key: key, Value: fmt.Sprintf("%v", value)})
	return c
}

// Flag appends single-letter module flags, e.g. "f" for -f.
func (c *Command) Flag(flags string) *Command {
	c.Flags += flags
	return c
}

// Get returns the value of an option and whether it was set.
func (c *Command) Get(key string) (string, bool) {
	for _, p := range c.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Produces reports whether the module writes a named map.
func (c *Command) Produces() bool {
	_, ok := c.Get("output")
	return ok
}

// Args renders the module arguments, excluding the module name itself.
func (c *Command) Args(overwrite bool) []string {
	args := make([]string, 0, len(c.Params)+2)
	if c.Flags != "" {
		args = append(args, "-"+c.Flags)
	}
	for _, p := range c.Params {
		args = append(args, p.Key+"="+p.Value)
	}
	if overwrite && c.Produces() {
		args = append(args, "--overwrite")
	}
	return args
}

func (c *Command) String() string {
	args := c.Args(false)
	if len(args) == 0 {
		return c.Module
	}
	return c.Module + " " + strings.Join(args, " ")
}
