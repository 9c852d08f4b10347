// Package httpload issues a fixed number of HTTP GET probes against one or
// more URLs through a bounded worker pool and reports per-URL statistics.
//
// # Quick Start
//
//	r, _ := httpload.New(
//	    httpload.WithURLs("https://api.example.com/a", "https://api.example.com/b"),
//	    httpload.WithCount(200),
//	    httpload.WithConcurrency(8),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	report, err := r.Run(ctx) // blocks until every probe has reported
//
// # Semantics
//
// Probe i targets URLs[i mod len(URLs)], so the split between targets is
// deterministic regardless of completion order. A probe succeeds iff a
// response arrives with a 2xx status code; transport failures and other
// status codes are failures. Failures are data in the [Report], never errors.
//
// Every dispatched probe reports exactly once, including when it times out,
// panics, or is cancelled. Cancelling the context passed to [Runner.Run]
// makes outstanding probes fail fast; the report still covers all of them.
//
// Per-URL throughput is probes divided by the sum of probe latencies. This
// matches a single sequential client and understates the rate of a
// concurrent run; [Report.WallThroughput] gives the wall-clock figure.
//
// # Architecture
//
// The engine lives in internal packages:
//
//   - internal/probe: HTTP GET with a shared transport, outcome classification
//   - internal/pool: fixed-size worker pool with blocking submission
//   - internal/dispatch: round-robin assignment and exactly-once task reporting
//   - internal/aggregate: single-owner grouping and per-URL statistics
//   - internal/metrics: Prometheus exposition of a run
//
// The report package formats a [Report] as text, JSON, or YAML.
package httpload
