package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
)

func prefix() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#4B5563")).
		Bold(true).
		Padding(0, 1).
		MarginRight(1).
		Render("skips")
}

// New returns a logger writing to w. Debug turns on debug level, caller and
// timestamps.
func New(w io.Writer, debug bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: debug,
		TimeFormat:      "15:04:05",
		Prefix:          prefix(),
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
	return l
}

// NewFile appends to the file at path. The caller closes the returned file.
func NewFile(path string, debug bool) (*log.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	l := New(f, debug)
	l.SetColorProfile(termenv.Ascii)
	l.SetReportTimestamp(true)
	return l, f, nil
}

// Discard drops everything; handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
