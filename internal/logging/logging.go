package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init routes the standard logger to stdout and, when logPath is set, to an
// append-only log file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogCommand records one toolkit module invocation and its outcome.
func LogCommand(module string, args []string, status string) {
	log.Println(buildCommandMessage(module, args, status))
}

func buildCommandMessage(module string, args []string, status string) string {
	moduleValue := strings.TrimSpace(module)
	if moduleValue == "" {
		moduleValue = "unknown"
	}
	statusValue := strings.TrimSpace(status)
	if statusValue == "" {
		statusValue = "ok"
	}
	parts := []string{"[RUN]"}
	parts = append(parts, fmt.Sprintf("module=%s", moduleValue))
	parts = append(parts, fmt.Sprintf("args=%s", formatArgs(args)))
	parts = append(parts, fmt.Sprintf("status=%s", statusValue))
	return strings.Join(parts, " ")
}

func formatArgs(args []string) string {
	if len(args) == 0 {
		return "[]"
	}
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t") {
			quoted = append(quoted, fmt.Sprintf("%q", arg))
			continue
		}
		quoted = append(quoted, arg)
	}
	return strings.Join(quoted, " ")
}
