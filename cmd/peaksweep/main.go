// cmd/peaksweep/main.go
package main

import (
	cmd "github.com/mwiater/peaksweep/internal/cli"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
