// Package main is the entry point for the httpload CLI.
//
// httpload can be used either as a library (SDK) or as this standalone
// binary.
//
// Usage:
//
//	httpload -u https://example.com -n 100 -c 8      # Run a load test
//	httpload -f urls.txt -n 1000 -c 16 -o json       # Targets from a file
//	httpload --plan plan.yaml                        # Targets and settings from YAML
//	httpload validate -f urls.txt -n 1000            # Resolve without probing
//	httpload version                                 # Show version info
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the command tree. The root command runs a load test;
// validate and version are subcommands.
func newRootCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "httpload (-u <url> | -f <file>) [-n <count>] [-c <threads>]",
		Short: "A small concurrent HTTP load tester",
		Long: `httpload sends a fixed number of GET requests to one or more URLs using
a fixed-size pool of workers, then prints per-URL statistics: successful and
failed requests, requests per second, and min/max/mean request time.

Requests are spread over the URLs round-robin. A request succeeds when the
response status is 2xx; connection errors, timeouts and any other status
count as failures.

Examples:
  httpload -u https://example.com -n 100 -c 8
  httpload -f urls.txt -n 1000 -c 16 --timeout 2s -o json
  httpload --plan plan.yaml --metrics-file /var/lib/node_exporter/httpload.prom`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, &flags)
		},
	}

	addRunFlags(cmd, &flags)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "report format: text, json or yaml (default from HTTPLOAD_OUTPUT, else text)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")

	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}
