package httpload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jpalmerr/httpload/internal/aggregate"
	"github.com/jpalmerr/httpload/internal/dispatch"
	"github.com/jpalmerr/httpload/internal/pool"
	"github.com/jpalmerr/httpload/internal/probe"
)

const (
	defaultCount       = 10
	defaultConcurrency = 1
)

// Runner issues a fixed number of HTTP GET probes against a list of URLs and
// aggregates the outcome per URL.
//
// Runner is created using [New] with functional options and executed with
// [Runner.Run]. A Runner is immutable after construction and may be run more
// than once; each call to Run is an independent load test.
//
// The typical lifecycle is:
//
//	r, err := httpload.New(
//	    httpload.WithURLs("https://example.com/a", "https://example.com/b"),
//	    httpload.WithCount(100),
//	    httpload.WithConcurrency(8),
//	)
//	if err != nil {
//	    slog.Error("invalid configuration", "error", err)
//	    os.Exit(1)
//	}
//
//	report, err := r.Run(ctx)
type Runner struct {
	urls            []string
	count           int
	concurrency     int
	timeout         time.Duration
	headers         map[string]string
	logger          *slog.Logger
	clock           clockwork.Clock
	resultCallbacks []func(ProbeResult)
}

// New creates a new [Runner] with the given options.
//
// At least one URL must be configured via [WithURL] or [WithURLs].
// Other options have defaults:
//   - Count: 10
//   - Concurrency: 1
//   - Timeout: none
//
// Returns an error if no URLs are configured or if any option is invalid.
func New(opts ...Option) (*Runner, error) {
	cfg := &runConfig{
		count:       defaultCount,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.urls) == 0 {
		return nil, errors.New("at least one url is required")
	}

	for i, raw := range cfg.urls {
		if err := validateURL(raw); err != nil {
			return nil, fmt.Errorf("urls[%d]: %w", i, err)
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := cfg.clock
	if clock == nil {
		clock = probe.NewClock()
	}

	return &Runner{
		urls:            append([]string(nil), cfg.urls...),
		count:           cfg.count,
		concurrency:     cfg.concurrency,
		timeout:         cfg.timeout,
		headers:         copyMap(cfg.headers),
		logger:          logger,
		clock:           clock,
		resultCallbacks: cfg.resultCallbacks,
	}, nil
}

// Run executes the load test and returns its [Report].
//
// Run dispatches Count probes over a pool of Concurrency workers, assigning
// probe i to URLs()[i mod len(URLs())], and blocks until every probe has
// reported. Failed probes are part of the report, not errors.
//
// Cancelling ctx makes pending and in-flight probes fail fast; they are still
// counted, so the report always covers exactly Count probes. Run only returns
// an error if the run could not be carried out at all.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)

	logger.Info("run starting",
		"urls", len(r.urls),
		"count", r.count,
		"concurrency", r.concurrency,
		"timeout", r.timeout.String(),
	)

	client := probe.NewClient(probe.ClientConfig{
		Concurrency: r.concurrency,
		Timeout:     r.timeout,
		Headers:     r.headers,
	})
	defer client.Close()

	observers := make([]aggregate.Observer, 0, len(r.resultCallbacks))
	for _, cb := range r.resultCallbacks {
		cb := cb
		observers = append(observers, func(pr probe.Result) {
			cb(toPublicResult(pr))
		})
	}
	agg := aggregate.New(logger, observers...)

	// sized to the pool so workers rarely wait on the collector
	results := make(chan probe.Result, r.concurrency)
	workers := pool.New(r.concurrency, logger)
	dispatcher := dispatch.New(client, r.clock, logger)

	startedAt := r.clock.Now()

	// the collector ignores ctx: cancelled probes still report and must be
	// counted. It only stops early if dispatch itself fails.
	collectCtx, stopCollect := context.WithCancel(context.Background())
	defer stopCollect()

	dispatchErr := make(chan error, 1)
	go func() {
		err := dispatcher.Dispatch(ctx, workers, r.urls, r.count, results)
		if err != nil {
			stopCollect()
		}
		// tasks already handed over keep running; Close waits for them
		workers.Close()
		dispatchErr <- err
	}()

	collectErr := agg.Collect(collectCtx, results, r.count)
	if err := <-dispatchErr; err != nil {
		return nil, fmt.Errorf("failed to dispatch probes: %w", err)
	}
	if collectErr != nil {
		return nil, fmt.Errorf("failed to collect results: %w", collectErr)
	}

	duration := r.clock.Since(startedAt)
	report := newReport(runID, startedAt, duration, r.count, r.concurrency, r.urls, agg.Summaries())

	logger.Info("run complete",
		"duration", duration.String(),
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
	)

	return report, nil
}

// URLs returns a copy of the configured target URLs.
func (r *Runner) URLs() []string {
	return append([]string(nil), r.urls...)
}

// Count returns the total number of probes a run issues.
func (r *Runner) Count() int {
	return r.count
}

// Concurrency returns the worker pool size.
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// Timeout returns the per-probe timeout. Zero means none.
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// Headers returns a copy of the headers sent with every probe.
func (r *Runner) Headers() map[string]string {
	return copyMap(r.headers)
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("url cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}

// toPublicResult converts the internal probe result to the public API type.
func toPublicResult(pr probe.Result) ProbeResult {
	return ProbeResult{
		Index:      pr.Index,
		URL:        pr.URL,
		Success:    pr.Success,
		StatusCode: pr.StatusCode,
		Elapsed:    pr.Elapsed(),
	}
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
