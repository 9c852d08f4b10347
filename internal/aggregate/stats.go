package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats holds the collected outcomes for a single URL.
//
// Stats is built by the [Aggregator] and is read-only once collection ends.
// All derived figures are computed on demand by [Stats.Summarize].
type Stats struct {
	// URL is the grouping key.
	URL string

	// SuccessCount is the number of probes classified as successful.
	SuccessCount int

	// FailureCount is the number of probes that failed (transport or non-2xx).
	FailureCount int

	// Latencies holds elapsed milliseconds in arrival order.
	Latencies []int64

	// StatusCodes counts probes by HTTP status code. 0 means no response.
	StatusCodes map[int]int
}

// Total returns the number of probes recorded for the URL.
func (s *Stats) Total() int {
	return s.SuccessCount + s.FailureCount
}

// Summary holds the derived statistics for one URL. Latency figures are in
// seconds.
type Summary struct {
	URL          string
	SuccessCount int
	FailureCount int
	// TotalTime is the sum of all probe latencies in seconds.
	TotalTime float64
	// Throughput is probes divided by TotalTime. It is 0 when TotalTime is 0.
	Throughput  float64
	Min         float64
	Max         float64
	Mean        float64
	P50         float64
	P95         float64
	P99         float64
	StatusCodes map[int]int
}

// Summarize computes the derived statistics for s.
//
// Summarize is a pure function of the recorded values: any permutation of the
// same latencies produces an identical Summary. An empty latency vector yields
// zeros rather than dividing by zero.
func (s *Stats) Summarize() Summary {
	sum := Summary{
		URL:          s.URL,
		SuccessCount: s.SuccessCount,
		FailureCount: s.FailureCount,
		StatusCodes:  copyCodes(s.StatusCodes),
	}

	n := len(s.Latencies)
	if n == 0 {
		return sum
	}

	// sorted copy so quantiles and sums do not depend on arrival order
	seconds := make([]float64, n)
	for i, ms := range s.Latencies {
		seconds[i] = millisToSeconds(ms)
	}
	sort.Float64s(seconds)

	var totalMs int64
	for _, ms := range s.Latencies {
		totalMs += ms
	}
	sum.TotalTime = millisToSeconds(totalMs)
	if sum.TotalTime > 0 {
		sum.Throughput = float64(n) / sum.TotalTime
	}

	sum.Min = seconds[0]
	sum.Max = seconds[n-1]
	sum.Mean = clamp(stat.Mean(seconds, nil), sum.Min, sum.Max)
	sum.P50 = stat.Quantile(0.50, stat.Empirical, seconds, nil)
	sum.P95 = stat.Quantile(0.95, stat.Empirical, seconds, nil)
	sum.P99 = stat.Quantile(0.99, stat.Empirical, seconds, nil)

	return sum
}

func millisToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}

// clamp guards min <= mean <= max against floating point rounding.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func copyCodes(m map[int]int) map[int]int {
	cp := make(map[int]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
