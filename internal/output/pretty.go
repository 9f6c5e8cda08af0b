package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bgricker/workflowgen/internal/provider"
	"github.com/bgricker/workflowgen/internal/report"
)

// PrettyRenderer renders workflows and generation results for humans.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderList renders workflows, their jobs with dependencies, and steps.
func (p *PrettyRenderer) RenderList(workflows []provider.Workflow) error {
	var buf bytes.Buffer
	for _, wf := range workflows {
		fmt.Fprintf(&buf, "Workflow %s\n", decorateName(wf.Name, wf.Path))
		if len(wf.Triggers) > 0 {
			fmt.Fprintf(&buf, "  on: %s\n", strings.Join(wf.Triggers, ", "))
		}
		for _, job := range wf.Jobs {
			fmt.Fprintf(&buf, "  Job %s", decorateName(job.Name, job.RawID))
			if len(job.Needs) > 0 {
				fmt.Fprintf(&buf, " <- %s", strings.Join(job.Needs, ", "))
			}
			buf.WriteByte('\n')
			for _, step := range job.Steps {
				fmt.Fprintf(&buf, "    • %s\n", stepLabel(step))
				if step.If != "" {
					fmt.Fprintf(&buf, "      if: %s\n", step.If)
				}
			}
		}
	}
	_, err := buf.WriteTo(p.out)
	return err
}

// RenderResults shows the status of each generated file followed by a summary.
func (p *PrettyRenderer) RenderResults(results []report.FileResult, summary report.Summary) error {
	var buf bytes.Buffer
	for _, res := range results {
		fmt.Fprintf(&buf, "%s %s -> %s (%s)\n", statusGlyph(res.Status), res.WorkflowName, res.Path, res.Status)
	}
	fmt.Fprintf(&buf, "SUMMARY: %d written, %d unchanged, %d planned, %d drift, %d missing (%s)\n",
		summary.Written, summary.Unchanged, summary.Planned, summary.Drift, summary.Missing, formatDuration(summary.Duration))
	_, err := buf.WriteTo(p.out)
	return err
}

func stepLabel(step provider.Step) string {
	switch {
	case step.Uses != "":
		return fmt.Sprintf("%s [%s]", step.Name, step.Uses)
	case step.Run != "":
		first, _, _ := strings.Cut(strings.TrimSpace(step.Run), "\n")
		if first == step.Name {
			return step.Name
		}
		return fmt.Sprintf("%s: %s", step.Name, first)
	}
	return step.Name
}

func decorateName(name, path string) string {
	if name == "" || name == path {
		return path
	}
	return fmt.Sprintf("%s (%s)", name, path)
}

func statusGlyph(status string) string {
	switch status {
	case report.StatusWritten:
		return "✓"
	case report.StatusUnchanged:
		return "="
	case report.StatusPlanned:
		return "~"
	case report.StatusDrift, report.StatusMissing:
		return "✗"
	default:
		return "?"
	}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
