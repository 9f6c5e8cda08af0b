package main

import (
	"errors"
	"fmt"

	"github.com/bgricker/workflowgen/internal/config"
	"github.com/bgricker/workflowgen/internal/output"
	"github.com/bgricker/workflowgen/internal/provider"
	"github.com/bgricker/workflowgen/internal/report"
	"github.com/bgricker/workflowgen/internal/runner"
	"github.com/spf13/cobra"
)

var errOutOfDate = errors.New("one or more workflow files are out of date")

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Render workflows and write them to .github/workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, false, nil)
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [workflow-file...]",
		Short: "Fail when a workflow file differs from its rendered output",
		Long: "Check renders every workflow and compares it with the file on disk without writing.\n" +
			"Workflow files given as arguments are also parsed and reported with the same warnings as list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, true, args)
		},
	}
}

func runGenerate(cmd *cobra.Command, check bool, files []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}

	r := runner.New(runner.Options{
		Root:      root,
		OutputDir: cfg.OutputDir,
		DryRun:    cfg.DryRun,
		Check:     check,
		Logger:    logger,
	})
	results, summary, err := r.Run(workflows)
	if err != nil {
		return err
	}

	var warnings []provider.Warning
	if check && cfg.OutputDir == "" && len(cfg.Workflows) == 0 {
		warnings, err = untracked(root, results)
		if err != nil {
			return err
		}
	}
	if len(files) > 0 {
		pipeline, err := inspectFiles(root, files, cfg)
		if err != nil {
			return err
		}
		warnings = append(warnings, pipeline.Warnings...)
	}

	if err := renderResults(cmd, cfg, results, summary, warnings); err != nil {
		return err
	}
	if summary.ExitCode != 0 {
		return errOutOfDate
	}
	return nil
}

func renderResults(cmd *cobra.Command, cfg config.Config, results []report.FileResult, summary report.Summary, warnings []provider.Warning) error {
	warningsList := collapseWarnings(warnings)

	switch cfg.Format {
	case config.FormatPretty:
		if err := output.NewPretty(cmd.OutOrStdout()).RenderResults(results, summary); err != nil {
			return err
		}
		for _, msg := range warningsList {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		}
	case config.FormatJSON:
		return output.NewJSON(cmd.OutOrStdout()).Render(output.Report{
			Files:    results,
			Summary:  &summary,
			Warnings: warningsList,
		})
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
	return nil
}
