// Package cli implements the wsgraph command-line interface.
//
// The commands drive the workspace dependency-graph pipeline, inspect its
// inputs, and expose the dev-shell command menu. The CLI is built using cobra
// and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - build: extract, render and publish media/<name>.svg
//   - dot: print the graph description only
//   - excludes: print the extractor exclusion arguments
//   - doctor: check tools, the examples directory and workspace membership
//   - menu: list or run dev-shell commands
//   - cache: manage the extractor cache
//   - serve: preview the published graph in a browser
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Published media/deps.svg (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}
