// Package aggregate collects probe results and reduces them to per-URL
// statistics.
//
// The [Aggregator] is the single consumer of the result channel. It owns its
// grouping map outright, so no locking is needed: results are appended in
// arrival order and statistics are derived afterwards by pure functions.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jpalmerr/httpload/internal/probe"
)

// ErrIncomplete is returned by [Aggregator.Collect] when the context ends
// before every expected result has arrived.
var ErrIncomplete = errors.New("aggregation incomplete")

// Observer is notified of every result after it has been recorded.
type Observer func(probe.Result)

// Aggregator groups probe results by URL.
//
// An Aggregator is not safe for concurrent use; it is meant to be driven by
// one goroutine reading the result channel.
type Aggregator struct {
	buckets   map[string]*Stats
	received  int
	observers []Observer
	logger    *slog.Logger
}

// New creates an empty [Aggregator]. Observers run synchronously on the
// collecting goroutine, in order; a panicking observer is logged and skipped.
func New(logger *slog.Logger, observers ...Observer) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}

	obs := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			obs = append(obs, o)
		}
	}

	return &Aggregator{
		buckets:   make(map[string]*Stats),
		observers: obs,
		logger:    logger,
	}
}

// Add records a single result. The first result for a URL creates its bucket.
func (a *Aggregator) Add(r probe.Result) {
	b, ok := a.buckets[r.URL]
	if !ok {
		b = &Stats{URL: r.URL, StatusCodes: make(map[int]int)}
		a.buckets[r.URL] = b
	}

	if r.Success {
		b.SuccessCount++
	} else {
		b.FailureCount++
	}
	b.Latencies = append(b.Latencies, r.ElapsedMs)
	b.StatusCodes[r.StatusCode]++
	a.received++

	for _, o := range a.observers {
		a.notify(o, r)
	}
}

// Collect receives exactly n results from results, blocking until they have
// all arrived.
//
// If ctx ends first, Collect returns an error wrapping [ErrIncomplete]; the
// results received so far remain in the Aggregator. If results is closed
// early, Collect returns an error as well, since that means a task never
// reported.
func (a *Aggregator) Collect(ctx context.Context, results <-chan probe.Result, n int) error {
	for i := 0; i < n; i++ {
		select {
		case r, ok := <-results:
			if !ok {
				return fmt.Errorf("%w: result channel closed after %d of %d results", ErrIncomplete, i, n)
			}
			a.Add(r)
		case <-ctx.Done():
			return fmt.Errorf("%w: received %d of %d results: %w", ErrIncomplete, i, n, ctx.Err())
		}
	}
	return nil
}

// Received returns the number of results recorded so far.
func (a *Aggregator) Received() int {
	return a.received
}

// Stats returns the per-URL buckets sorted by URL.
//
// The returned values share latency slices with the Aggregator; callers must
// not modify them.
func (a *Aggregator) Stats() []*Stats {
	out := make([]*Stats, 0, len(a.buckets))
	for _, b := range a.buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].URL < out[j].URL
	})
	return out
}

// Summaries returns the derived statistics for every URL, sorted by URL.
func (a *Aggregator) Summaries() []Summary {
	stats := a.Stats()
	out := make([]Summary, len(stats))
	for i, s := range stats {
		out[i] = s.Summarize()
	}
	return out
}

func (a *Aggregator) notify(o Observer, r probe.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("result observer panicked",
				"panic", rec,
				"url", r.URL,
			)
		}
	}()
	o(r)
}
