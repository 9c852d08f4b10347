package httpload

import (
	"time"

	"github.com/jpalmerr/httpload/internal/aggregate"
)

// ProbeResult holds the outcome of a single probe.
//
// ProbeResult is passed to callbacks registered with [WithResultCallback]. It
// carries the classification and timing only; transport errors are never
// exposed.
type ProbeResult struct {
	// Index is the dispatch index of the probe, in [0, Count).
	Index int

	// URL is the target the probe was assigned to.
	URL string

	// Success is true iff a response arrived with a 2xx status code.
	Success bool

	// StatusCode is the HTTP status code returned by the target.
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Elapsed is the wall-clock duration of the probe, at millisecond
	// resolution.
	Elapsed time.Duration
}

// URLStats holds the aggregated statistics for one target URL.
//
// Latency figures are in seconds. Throughput is the number of probes divided
// by the sum of their latencies, so it describes a single sequential client
// rather than the whole run; see [Report.WallThroughput] for the latter.
type URLStats struct {
	URL         string      `json:"url" yaml:"url"`
	Successful  int         `json:"successful" yaml:"successful"`
	Failed      int         `json:"failed" yaml:"failed"`
	Throughput  float64     `json:"requests_per_second" yaml:"requests_per_second"`
	TotalTime   float64     `json:"total_time_seconds" yaml:"total_time_seconds"`
	Min         float64     `json:"min_seconds" yaml:"min_seconds"`
	Max         float64     `json:"max_seconds" yaml:"max_seconds"`
	Mean        float64     `json:"mean_seconds" yaml:"mean_seconds"`
	P50         float64     `json:"p50_seconds" yaml:"p50_seconds"`
	P95         float64     `json:"p95_seconds" yaml:"p95_seconds"`
	P99         float64     `json:"p99_seconds" yaml:"p99_seconds"`
	StatusCodes map[int]int `json:"status_codes" yaml:"status_codes"`
}

// Total returns the number of probes issued against the URL.
func (s URLStats) Total() int {
	return s.Successful + s.Failed
}

// Report is the outcome of one [Runner.Run].
type Report struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Count       int           `json:"count" yaml:"count"`
	Concurrency int           `json:"concurrency" yaml:"concurrency"`

	// URLs lists one entry per distinct target that received at least one
	// probe, in configured order.
	URLs []URLStats `json:"urls" yaml:"urls"`
}

// Succeeded returns the number of successful probes across all URLs.
func (r *Report) Succeeded() int {
	var n int
	for _, u := range r.URLs {
		n += u.Successful
	}
	return n
}

// Failed returns the number of failed probes across all URLs.
func (r *Report) Failed() int {
	var n int
	for _, u := range r.URLs {
		n += u.Failed
	}
	return n
}

// WallThroughput returns probes per second over the wall-clock duration of
// the run. It is 0 for an empty or instantaneous run.
func (r *Report) WallThroughput() float64 {
	secs := r.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Succeeded()+r.Failed()) / secs
}

// newReport orders the per-URL summaries by configured URL order.
func newReport(runID string, startedAt time.Time, duration time.Duration, count, concurrency int, urls []string, summaries []aggregate.Summary) *Report {
	byURL := make(map[string]aggregate.Summary, len(summaries))
	for _, s := range summaries {
		byURL[s.URL] = s
	}

	stats := make([]URLStats, 0, len(summaries))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true

		s, ok := byURL[u]
		if !ok {
			continue // fewer probes than urls
		}
		stats = append(stats, toURLStats(s))
	}

	return &Report{
		RunID:       runID,
		StartedAt:   startedAt,
		Duration:    duration,
		Count:       count,
		Concurrency: concurrency,
		URLs:        stats,
	}
}

func toURLStats(s aggregate.Summary) URLStats {
	return URLStats{
		URL:         s.URL,
		Successful:  s.SuccessCount,
		Failed:      s.FailureCount,
		Throughput:  s.Throughput,
		TotalTime:   s.TotalTime,
		Min:         s.Min,
		Max:         s.Max,
		Mean:        s.Mean,
		P50:         s.P50,
		P95:         s.P95,
		P99:         s.P99,
		StatusCodes: s.StatusCodes,
	}
}
