package main

import (
	"fmt"

	"github.com/bgricker/workflowgen/internal/config"
	"github.com/bgricker/workflowgen/internal/output"
	"github.com/bgricker/workflowgen/internal/provider"
	"github.com/bgricker/workflowgen/internal/report"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [workflow-file...]",
		Short: "List the jobs and steps of each rendered workflow, or of the given workflow files",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		pipeline, err := inspectFiles(root, args, cfg)
		if err != nil {
			return err
		}
		return renderList(cmd, cfg, pipeline.Workflows, pipeline.Warnings)
	}

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}

	pipeline, err := inspect(workflows, cfg)
	if err != nil {
		return err
	}

	return renderList(cmd, cfg, pipeline.Workflows, pipeline.Warnings)
}

func renderList(cmd *cobra.Command, cfg config.Config, workflows []provider.Workflow, warnings []provider.Warning) error {
	if len(workflows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching jobs or steps")
		return nil
	}

	warningsList := collapseWarnings(warnings)

	switch cfg.Format {
	case config.FormatPretty:
		renderer := output.NewPretty(cmd.OutOrStdout())
		if err := renderer.RenderList(workflows); err != nil {
			return err
		}
	case config.FormatJSON:
		summary := computeListSummary(workflows)
		renderer := output.NewJSON(cmd.OutOrStdout())
		if err := renderer.Render(output.Report{
			Workflows: workflows,
			Summary:   &summary,
			Warnings:  warningsList,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if cfg.Format == config.FormatPretty {
		for _, msg := range warningsList {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		}
	}

	return nil
}

func computeListSummary(workflows []provider.Workflow) report.Summary {
	var jobs, steps int
	for _, wf := range workflows {
		jobs += len(wf.Jobs)
		for _, job := range wf.Jobs {
			steps += len(job.Steps)
		}
	}
	return report.Summary{
		TotalWorkflows: len(workflows),
		TotalJobs:      jobs,
		TotalSteps:     steps,
	}
}
