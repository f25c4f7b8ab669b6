// Package output renders check reports for people and machines. Formatters
// write to an io.Writer so commands can target stdout or a file and tests
// can capture output directly.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/tscheck/internal/check"
)

// Options carries presentation settings shared by the formatters.
type Options struct {
	Quiet      bool
	Verbose    bool
	Color      bool
	Suppressed int // issues hidden by the baseline
}

// Write renders the report in the given format to w.
func Write(w io.Writer, report *check.Report, format string, opts Options) error {
	switch format {
	case "console":
		return NewConsoleFormatter(w, opts).Format(report)
	case "json":
		return NewJSONFormatter(w, true, opts.Suppressed).Format(report)
	case "markdown":
		return NewMarkdownFormatter(w, opts).Format(report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteTo renders the report to the named file, or to stdout when path is
// empty. Console color is disabled when writing to a file.
func WriteTo(path string, report *check.Report, format string, opts Options) error {
	if path == "" {
		return Write(os.Stdout, report, format, opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	opts.Color = false
	return Write(f, report, format, opts)
}
