// Package dispatch distributes probes across the worker pool.
//
// The [Dispatcher] turns a target count and URL list into count probe tasks,
// assigning probe i to urls[i mod len(urls)], and guarantees that every task
// sends exactly one [probe.Result] on the result channel.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jpalmerr/httpload/internal/pool"
	"github.com/jpalmerr/httpload/internal/probe"
)

// Prober performs one blocking HTTP probe.
//
// Implementations must capture failures in [probe.Response.Error] rather
// than panicking; the dispatcher still recovers panics as failed probes.
type Prober interface {
	Fetch(ctx context.Context, url string) probe.Response
}

// Submitter accepts tasks for concurrent execution. [*pool.Pool] implements it.
type Submitter interface {
	Submit(task pool.Task) error
}

// Dispatcher submits probe tasks and times each probe.
type Dispatcher struct {
	prober Prober
	clock  clockwork.Clock
	logger *slog.Logger
}

// New creates a [Dispatcher]. A nil clock uses the real clock and a nil
// logger uses slog.Default().
func New(prober Prober, clock clockwork.Clock, logger *slog.Logger) *Dispatcher {
	if clock == nil {
		clock = probe.NewClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		prober: prober,
		clock:  clock,
		logger: logger,
	}
}

// Assign returns the URL that probe index i targets.
func Assign(urls []string, i int) string {
	return urls[i%len(urls)]
}

// Dispatch submits count probe tasks to workers and returns once all of
// them have been handed over.
//
// Each task sends exactly one result on results. The channel must be able to
// absorb count sends, either through its buffer or a concurrent consumer.
// Dispatch does not wait for tasks to finish and does not close results.
//
// If workers refuse a task, the probe is reported as failed inline so the
// consumer still receives count results. ctx is passed to every probe;
// cancelling it makes outstanding probes fail fast rather than disappear.
func (d *Dispatcher) Dispatch(ctx context.Context, workers Submitter, urls []string, count int, results chan<- probe.Result) error {
	if count < 0 {
		return fmt.Errorf("count cannot be negative, got %d", count)
	}
	if count > 0 && len(urls) == 0 {
		return errors.New("at least one url is required")
	}

	for i := 0; i < count; i++ {
		url := Assign(urls, i)
		task := d.task(ctx, i, url, results)

		if err := workers.Submit(task); err != nil {
			d.logger.Warn("probe not scheduled",
				"index", i,
				"url", url,
				"error", err.Error(),
			)
			results <- probe.Result{Index: i, URL: url, Success: false}
		}
	}

	return nil
}

// task builds the closure for probe index i. Every path through the
// closure, including a panicking prober, ends in exactly one send.
func (d *Dispatcher) task(ctx context.Context, index int, url string, results chan<- probe.Result) pool.Task {
	return func() {
		result := probe.Result{Index: index, URL: url}
		start := d.clock.Now()

		defer func() {
			if r := recover(); r != nil {
				correlationID := uuid.NewString()
				d.logger.Error("probe panic",
					"correlation_id", correlationID,
					"url", url,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				result.Success = false
				result.StatusCode = 0
			}
			result.ElapsedMs = probe.ElapsedMillis(start, d.clock.Now())
			results <- result
		}()

		resp := d.prober.Fetch(ctx, url)
		result.StatusCode = resp.StatusCode
		result.Success = probe.Classify(resp)

		if resp.Error != nil {
			d.logger.Debug("probe failed",
				"url", url,
				"index", index,
				"error", resp.Error.Error(),
			)
		}
	}
}
