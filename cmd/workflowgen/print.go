package main

import (
	"io"

	"github.com/bgricker/workflowgen/pkg/workflow"
	"github.com/spf13/cobra"
)

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print rendered workflows to stdout",
		Args:  cobra.NoArgs,
		RunE:  runPrint,
	}
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	workflows, err := loadWorkflows(cfg)
	if err != nil {
		return err
	}

	docs := make([][]byte, 0, len(workflows))
	for _, wf := range workflows {
		data, err := workflow.Marshal(wf)
		if err != nil {
			return err
		}
		docs = append(docs, data)
	}

	out := cmd.OutOrStdout()
	for i, data := range docs {
		if i > 0 {
			if _, err := io.WriteString(out, "---\n"); err != nil {
				return err
			}
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}
