package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bgricker/workflowgen/internal/discovery"
	"github.com/bgricker/workflowgen/internal/report"
	"github.com/bgricker/workflowgen/pkg/workflow"
)

// Options configure how the runner renders and writes workflows.
type Options struct {
	// Root anchors relative output paths and the .github search.
	Root string
	// OutputDir overrides the located workflows folder.
	OutputDir string
	// DryRun renders and compares without writing.
	DryRun bool
	// Check compares files on disk with the rendered output and never writes.
	Check  bool
	Logger *slog.Logger
	Now    func() time.Time
}

// Runner renders workflows and writes them to their files.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}
}

type rendered struct {
	wf   workflow.Workflow
	path string
	data []byte
}

// Run renders every workflow before touching the disk, so a workflow that
// fails to render leaves all files as they were. It then writes, plans or
// checks each file and returns per-file results with a summary.
func (r *Runner) Run(workflows []workflow.Workflow) ([]report.FileResult, report.Summary, error) {
	start := r.opts.Now()
	summary := report.Summary{TotalWorkflows: len(workflows)}

	docs := make([]rendered, 0, len(workflows))
	for _, wf := range workflows {
		data, err := workflow.Marshal(wf)
		if err != nil {
			return nil, summary, err
		}
		path, err := r.targetPath(wf)
		if err != nil {
			return nil, summary, fmt.Errorf("locate output for workflow %q: %w", wf.Name, err)
		}
		summary.TotalJobs += len(wf.Jobs)
		for _, entry := range wf.Jobs {
			summary.TotalSteps += len(entry.Job.Steps)
		}
		r.opts.Logger.Debug("rendered workflow", "workflow", wf.Name, "path", path, "bytes", len(data))
		docs = append(docs, rendered{wf: wf, path: path, data: data})
	}

	results := make([]report.FileResult, 0, len(docs))
	for _, doc := range docs {
		result, err := r.apply(doc)
		if err != nil {
			return nil, summary, err
		}
		summary.Add(result)
		results = append(results, result)
	}

	if r.opts.Check && summary.Drift+summary.Missing > 0 {
		summary.ExitCode = 1
	}
	summary.Duration = r.opts.Now().Sub(start)
	summary.DurationMS = summary.Duration.Milliseconds()
	return results, summary, nil
}

func (r *Runner) apply(doc rendered) (report.FileResult, error) {
	result := report.FileResult{
		WorkflowName: doc.wf.Name,
		Path:         discovery.RelOrClean(r.opts.Root, doc.path),
		Bytes:        len(doc.data),
	}

	existing, err := os.ReadFile(doc.path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return result, fmt.Errorf("read %q: %w", doc.path, err)
	}

	switch {
	case exists && bytes.Equal(existing, doc.data):
		result.Status = report.StatusUnchanged
	case r.opts.Check && !exists:
		result.Status = report.StatusMissing
	case r.opts.Check:
		result.Status = report.StatusDrift
	case r.opts.DryRun:
		result.Status = report.StatusPlanned
	default:
		if err := workflow.WriteFile(doc.path, doc.data); err != nil {
			return result, err
		}
		result.Status = report.StatusWritten
	}
	r.opts.Logger.Info("workflow file", "workflow", doc.wf.Name, "path", result.Path, "status", result.Status)
	return result, nil
}

func (r *Runner) targetPath(wf workflow.Workflow) (string, error) {
	if r.opts.OutputDir != "" {
		dir := r.opts.OutputDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.opts.Root, dir)
		}
		return filepath.Join(dir, workflow.FileName(wf.Name)), nil
	}
	return workflow.Path(wf, r.opts.Root)
}
