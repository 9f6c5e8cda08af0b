package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "workflowgen",
		Short:         "Workflowgen renders the repository's GitHub Actions workflows from Go",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.StringArray("workflow", nil, "workflow name filter (repeatable)")
	persistent.StringArray("job", nil, "job filter for list (repeatable)")
	persistent.String("output-dir", "", "write workflows here instead of the nearest .github/workflows")
	persistent.Bool("dry-run", false, "render and compare without writing files")
	persistent.BoolP("verbose", "v", false, "log rendering details to stderr")
	persistent.String("format", "pretty", "output format (pretty|json)")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newPrintCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
