package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bgricker/workflowgen/internal/config"
	"github.com/bgricker/workflowgen/internal/discovery"
	"github.com/bgricker/workflowgen/internal/provider"
	"github.com/bgricker/workflowgen/internal/provider/filter"
	githubprovider "github.com/bgricker/workflowgen/internal/provider/github"
	"github.com/bgricker/workflowgen/internal/report"
	"github.com/bgricker/workflowgen/internal/templates"
	"github.com/bgricker/workflowgen/pkg/workflow"
	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no workflows match the --workflow filters")

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)
	cfg.Format = strings.ToLower(cfg.Format)

	switch cfg.Format {
	case config.FormatPretty, config.FormatJSON:
	default:
		return config.Config{}, "", fmt.Errorf("unsupported format %q", cfg.Format)
	}

	return cfg, root, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadWorkflows returns the repository workflows selected by cfg.Workflows.
func loadWorkflows(cfg config.Config) ([]workflow.Workflow, error) {
	all, err := templates.All()
	if err != nil {
		return nil, fmt.Errorf("build workflows: %w", err)
	}
	patterns, err := filter.Compile(cfg.Workflows)
	if err != nil {
		return nil, err
	}
	selected := filter.SelectWorkflows(all, patterns)
	if len(selected) == 0 {
		return nil, errNoMatch
	}
	return selected, nil
}

// inspect renders each workflow and parses it back into the flat model used
// by list output, filtered by cfg.Jobs.
func inspect(workflows []workflow.Workflow, cfg config.Config) (provider.Pipeline, error) {
	pipeline := provider.Pipeline{Provider: githubprovider.ProviderName}
	for _, wf := range workflows {
		data, err := workflow.Marshal(wf)
		if err != nil {
			return provider.Pipeline{}, err
		}
		parsed, warnings, err := githubprovider.Decode(bytes.NewReader(data), workflow.FileName(wf.Name))
		if err != nil {
			return provider.Pipeline{}, err
		}
		pipeline.Workflows = append(pipeline.Workflows, parsed)
		pipeline.Warnings = append(pipeline.Warnings, warnings...)
	}
	if cfg.Warn.ActionVersions {
		pipeline.Warnings = append(pipeline.Warnings, githubprovider.CheckActionVersions(pipeline.Workflows)...)
	}

	jobPatterns, err := filter.Compile(cfg.Jobs)
	if err != nil {
		return provider.Pipeline{}, err
	}
	pipeline.Workflows = filter.FilterJobs(pipeline.Workflows, jobPatterns)
	return pipeline, nil
}

// inspectFiles parses workflow files already on disk, resolved against root,
// with the same warnings and job filters as rendered workflows.
func inspectFiles(root string, files []string, cfg config.Config) (provider.Pipeline, error) {
	paths, err := discovery.Workflows(root, files)
	if err != nil {
		return provider.Pipeline{}, err
	}
	parser := githubprovider.NewParser(root)
	parser.ActionVersions = cfg.Warn.ActionVersions
	pipeline, err := parser.Parse(paths)
	if err != nil {
		return provider.Pipeline{}, err
	}

	jobPatterns, err := filter.Compile(cfg.Jobs)
	if err != nil {
		return provider.Pipeline{}, err
	}
	pipeline.Workflows = filter.FilterJobs(pipeline.Workflows, jobPatterns)
	return pipeline, nil
}

// untracked lists workflow files in the located workflows folder that no
// generated result accounts for.
func untracked(root string, results []report.FileResult) ([]provider.Warning, error) {
	dir, err := discovery.FindWorkflowDir(root)
	if err != nil {
		if errors.Is(err, discovery.ErrNoWorkflowDir) {
			return nil, nil
		}
		return nil, err
	}
	base := filepath.Dir(filepath.Dir(dir))
	paths, err := discovery.Workflows(base, nil)
	if err != nil {
		if errors.Is(err, discovery.ErrNoWorkflows) {
			return nil, nil
		}
		return nil, err
	}

	generated := make(map[string]struct{}, len(results))
	for _, res := range results {
		full := res.Path
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, full)
		}
		generated[filepath.Clean(full)] = struct{}{}
	}

	var warnings []provider.Warning
	for _, rel := range paths {
		full := rel
		if !filepath.IsAbs(full) {
			full = filepath.Join(base, rel)
		}
		if _, ok := generated[filepath.Clean(full)]; ok {
			continue
		}
		warnings = append(warnings, provider.Warning{
			Workflow: discovery.RelOrClean(root, full),
			Message:  "not generated by any workflow definition",
		})
	}
	return warnings, nil
}

func collapseWarnings(warnings []provider.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, fmt.Sprintf("%s:%s: %s", w.Workflow, w.Job, w.Message))
	}
	return out
}
