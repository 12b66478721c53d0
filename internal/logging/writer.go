package logging

import (
	"log/slog"
	"strings"
)

// Writer is an io.Writer implementation that forwards startup command output to slog.
type Writer struct {
	logger  *slog.Logger
	command string
}

// NewWriter constructs a Writer bound to the provided logger and command label.
func NewWriter(logger *slog.Logger, command string) *Writer {
	return &Writer{logger: logger, command: command}
}

// Write logs the given bytes line by line at info level.
func (w *Writer) Write(p []byte) (int, error) {
	if w.logger != nil {
		for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
			if line != "" {
				w.logger.Info("command output", "command", w.command, "line", line)
			}
		}
	}
	return len(p), nil
}
