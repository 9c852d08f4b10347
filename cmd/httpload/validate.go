package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newValidateCmd resolves a run configuration without sending any requests.
func newValidateCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "validate (-u <url> | -f <file> | -p <plan>) [flags]",
		Short: "Validate a run configuration",
		Long: `Resolve a run configuration exactly as a load test would, without sending
any requests, and print the result.

This reads the plan and URL files, expands environment variables, applies
flag overrides and defaults, and validates every value. It's useful for
CI/CD pipelines or checking a URL file before a large run.

Exit codes:
  0 - Configuration is valid
  1 - Configuration is invalid (error details printed to stderr)

Example:
  httpload validate -f urls.txt -n 1000 -c 16
  httpload validate --plan plan.yaml`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, &flags)
		},
	}

	addRunFlags(cmd, &flags)
	return cmd
}

func runValidate(cmd *cobra.Command, f *runFlags) error {
	run, err := f.resolve(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration is valid!\n")
	fmt.Fprintf(out, "  URLs:        %d\n", len(run.URLs))
	fmt.Fprintf(out, "  Requests:    %d\n", run.Count)
	fmt.Fprintf(out, "  Concurrency: %d\n", run.Concurrency)
	fmt.Fprintln(out)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("failed to print configuration: %w", err)
	}
	return enc.Close()
}
