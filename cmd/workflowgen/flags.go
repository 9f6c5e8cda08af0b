package main

import (
	"fmt"

	"github.com/bgricker/workflowgen/internal/config"
	"github.com/spf13/cobra"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("workflow") {
		v, err := flags.GetStringArray("workflow")
		if err != nil {
			return values, fmt.Errorf("parse --workflow: %w", err)
		}
		values.Workflows = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("job") {
		v, err := flags.GetStringArray("job")
		if err != nil {
			return values, fmt.Errorf("parse --job: %w", err)
		}
		values.Jobs = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("output-dir") {
		v, err := flags.GetString("output-dir")
		if err != nil {
			return values, fmt.Errorf("parse --output-dir: %w", err)
		}
		values.OutputDir = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return values, fmt.Errorf("parse --format: %w", err)
		}
		values.Format = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("dry-run") {
		v, err := flags.GetBool("dry-run")
		if err != nil {
			return values, fmt.Errorf("parse --dry-run: %w", err)
		}
		values.DryRun = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		v, err := flags.GetString("addr")
		if err != nil {
			return values, fmt.Errorf("parse --addr: %w", err)
		}
		values.Addr = config.StringFlag{Value: v, Set: true}
	}

	return values, nil
}
