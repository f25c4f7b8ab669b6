package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/tscheck/internal/check"
	"github.com/dotcommander/tscheck/internal/types"
)

// Version is the report schema version stamped into machine-readable output.
const Version = "1.0.0"

// JSONFormatter renders a report as a single JSON document for CI pipelines
// and editor integrations.
type JSONFormatter struct {
	w          io.Writer
	indent     bool
	suppressed int
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(w io.Writer, indent bool, suppressed int) *JSONFormatter {
	return &JSONFormatter{w: w, indent: indent, suppressed: suppressed}
}

// JSONReport is the complete machine-readable report structure.
type JSONReport struct {
	Header       JSONHeader        `json:"header"`
	Summary      JSONSummary       `json:"summary"`
	ToolsRun     []string          `json:"tools_run"`
	ToolsSkipped map[string]string `json:"tools_skipped,omitempty"`
	Issues       []types.Issue     `json:"issues"`
}

// JSONHeader contains report metadata.
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains aggregate counts.
type JSONSummary struct {
	FilesChecked int    `json:"files_checked"`
	Errors       int    `json:"errors"`
	Warnings     int    `json:"warnings"`
	Infos        int    `json:"infos"`
	Suppressed   int    `json:"suppressed,omitempty"`
	Duration     string `json:"duration"`
}

// Format writes the report as JSON.
func (f *JSONFormatter) Format(report *check.Report) error {
	out := JSONReport{
		Header: JSONHeader{
			Tool:      "tscheck",
			Version:   Version,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			FilesChecked: report.FilesChecked,
			Errors:       report.ErrorCount(),
			Warnings:     report.WarningCount(),
			Infos:        report.InfoCount(),
			Suppressed:   f.suppressed,
			Duration:     report.Duration.Round(time.Millisecond).String(),
		},
		ToolsRun:     report.ToolsRun,
		ToolsSkipped: report.ToolsSkipped,
		Issues:       report.Issues,
	}
	if out.ToolsRun == nil {
		out.ToolsRun = []string{}
	}
	if out.Issues == nil {
		out.Issues = []types.Issue{}
	}

	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	_, err = fmt.Fprintln(f.w, string(data))
	return err
}
