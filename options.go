package httpload

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// runConfig holds mutable state during Runner construction.
type runConfig struct {
	urls            []string
	count           int
	concurrency     int
	timeout         time.Duration
	headers         map[string]string
	logger          *slog.Logger
	clock           clockwork.Clock
	resultCallbacks []func(ProbeResult)
}

// Option is a function that configures a [Runner] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithURL], [WithURLs], [WithCount], [WithConcurrency],
// [WithTimeout], [WithHeaders], [WithLogger], [WithResultCallback].
type Option func(*runConfig) error

// WithURL adds a single target URL.
//
// Can be called multiple times; probes are assigned to URLs round-robin in
// the order they were added. At least one URL must be configured for [New]
// to succeed.
func WithURL(url string) Option {
	return func(cfg *runConfig) error {
		cfg.urls = append(cfg.urls, url)
		return nil
	}
}

// WithURLs adds multiple target URLs. Equivalent to calling [WithURL] for
// each of them.
//
// Example:
//
//	r, err := httpload.New(
//	    httpload.WithURLs(urls...),
//	)
func WithURLs(urls ...string) Option {
	return func(cfg *runConfig) error {
		cfg.urls = append(cfg.urls, urls...)
		return nil
	}
}

// WithCount sets the total number of probes issued by a run.
//
// Defaults to 10. Zero is valid and produces an empty report.
//
// Returns an error if n is negative.
func WithCount(n int) Option {
	return func(cfg *runConfig) error {
		if n < 0 {
			return errors.New("count cannot be negative")
		}
		cfg.count = n
		return nil
	}
}

// WithConcurrency sets the size of the worker pool.
//
// At most n probes are in flight at any instant. Defaults to 1.
//
// Returns an error if n is zero or negative.
func WithConcurrency(n int) Option {
	return func(cfg *runConfig) error {
		if n <= 0 {
			return errors.New("concurrency must be positive")
		}
		cfg.concurrency = n
		return nil
	}
}

// WithTimeout bounds each probe. A probe that exceeds it is recorded as a
// failure.
//
// Zero disables the timeout, which is the default; the probe then waits as
// long as the transport does.
//
// Returns an error if d is negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *runConfig) error {
		if d < 0 {
			return errors.New("timeout cannot be negative")
		}
		cfg.timeout = d
		return nil
	}
}

// WithHeaders adds HTTP headers sent with every probe.
//
// Arguments are key-value pairs and must be provided in pairs:
//
//	httpload.WithHeaders("Authorization", "Bearer token", "Accept", "application/json")
//
// Returns an error if an odd number of arguments is provided or a key is empty.
func WithHeaders(kv ...string) Option {
	return func(cfg *runConfig) error {
		if len(kv)%2 != 0 {
			return errors.New("headers must be provided in key-value pairs")
		}
		if cfg.headers == nil {
			cfg.headers = make(map[string]string, len(kv)/2)
		}
		for i := 0; i < len(kv); i += 2 {
			key := strings.TrimSpace(kv[i])
			if key == "" {
				return fmt.Errorf("header key at position %d cannot be empty", i)
			}
			cfg.headers[key] = kv[i+1]
		}
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Runner.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *runConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithClock sets the clock used to time probes and the run. Tests use a
// fake clock for deterministic latencies.
//
// Returns an error if the clock is nil.
func WithClock(clock clockwork.Clock) Option {
	return func(cfg *runConfig) error {
		if clock == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.clock = clock
		return nil
	}
}

// WithResultCallback registers a function to be called for every probe
// result as it is collected.
//
// Multiple callbacks may be registered; they execute in registration order.
// Callbacks are invoked synchronously from the collecting goroutine, so a
// slow callback delays collection but never loses results. Panics within
// callbacks are recovered and logged.
//
// Example:
//
//	r, err := httpload.New(
//	    httpload.WithURL(target),
//	    httpload.WithResultCallback(func(res httpload.ProbeResult) {
//	        if !res.Success {
//	            log.Printf("probe %d failed: %s (%d)", res.Index, res.URL, res.StatusCode)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithResultCallback(cb func(ProbeResult)) Option {
	return func(cfg *runConfig) error {
		if cb == nil {
			return nil
		}
		cfg.resultCallbacks = append(cfg.resultCallbacks, cb)
		return nil
	}
}
