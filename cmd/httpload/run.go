package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/httpload"
	"github.com/jpalmerr/httpload/config"
	"github.com/jpalmerr/httpload/internal/metrics"
	"github.com/jpalmerr/httpload/report"
)

// runFlags holds the values bound to command-line flags.
type runFlags struct {
	url         string
	file        string
	plan        string
	count       int
	concurrency int
	timeout     time.Duration
	headers     []string

	output      string
	metricsFile string
}

// addRunFlags registers the flags that describe a run. They are shared by
// the root command and validate.
func addRunFlags(cmd *cobra.Command, f *runFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.url, "url", "u", "", "single target URL")
	flags.StringVarP(&f.file, "file", "f", "", "file with one target URL per line")
	flags.StringVarP(&f.plan, "plan", "p", "", "YAML plan file (flags override its values)")
	flags.IntVarP(&f.count, "count", "n", config.DefaultCount, "total number of requests")
	flags.IntVarP(&f.concurrency, "concurrent_threads", "c", config.DefaultConcurrency, "number of concurrent workers")
	flags.DurationVarP(&f.timeout, "timeout", "t", 0, "per-request timeout, 0 for none")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "request header as 'Key: Value' (repeatable)")

	cmd.MarkFlagsMutuallyExclusive("url", "file")
}

// resolve loads the optional plan and merges the flags over it.
func (f *runFlags) resolve(cmd *cobra.Command) (*config.Run, error) {
	var plan *config.Plan
	if f.plan != "" {
		p, err := config.Load(f.plan)
		if err != nil {
			return nil, fmt.Errorf("failed to load plan: %w", err)
		}
		plan = p
	}

	changed := cmd.Flags().Changed
	run, err := config.Resolve(plan, config.Flags{
		URL:            f.url,
		File:           f.file,
		Count:          f.count,
		CountSet:       changed("count"),
		Concurrency:    f.concurrency,
		ConcurrencySet: changed("concurrent_threads"),
		Timeout:        f.timeout,
		TimeoutSet:     changed("timeout"),
		Headers:        f.headers,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return run, nil
}

// newLogger creates the CLI logger. Logs go to w (stderr) so the report on
// stdout stays machine readable.
func newLogger(w io.Writer, env *config.Environment) *slog.Logger {
	opts := &slog.HandlerOptions{Level: env.LogLevel}
	if env.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func runLoad(cmd *cobra.Command, f *runFlags) error {
	env, err := config.LoadEnvironment()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), env)

	run, err := f.resolve(cmd)
	if err != nil {
		return err
	}

	outputName := env.Output
	if cmd.Flags().Changed("output") {
		outputName = f.output
	}
	format, err := report.ParseFormat(outputName)
	if err != nil {
		return err
	}

	opts := append(run.Options(), httpload.WithLogger(logger))

	var recorder *metrics.Recorder
	if f.metricsFile != "" {
		recorder = metrics.NewRecorder()
		opts = append(opts, httpload.WithResultCallback(recorder.Observe))
	}

	runner, err := httpload.New(opts...)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// cancel on SIGINT/SIGTERM; outstanding requests then fail fast and are
	// still reported
	parent := contextOrBackground(cmd.Context())
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}
	if ctx.Err() != nil && parent.Err() == nil {
		logger.Warn("run interrupted, unfinished requests were counted as failures")
	}

	if err := report.Write(cmd.OutOrStdout(), rep, format); err != nil {
		return err
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(f.metricsFile); err != nil {
			return err
		}
		logger.Info("metrics written", "path", f.metricsFile)
	}

	return nil
}

// contextOrBackground guards commands executed without cobra's context
// plumbing, as in tests that call RunE directly.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
