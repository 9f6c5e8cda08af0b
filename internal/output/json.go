package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/workflowgen/internal/provider"
	"github.com/bgricker/workflowgen/internal/report"
)

// JSONRenderer emits structured output.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Report captures JSON output schema.
type Report struct {
	Workflows []provider.Workflow `json:"workflows,omitempty"`
	Files     []report.FileResult `json:"files,omitempty"`
	Summary   *report.Summary     `json:"summary,omitempty"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(report Report) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
