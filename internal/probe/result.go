package probe

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Result is the message produced exactly once per dispatched probe.
//
// Result never carries the transport error itself; failures are reduced to
// Success=false so consumers only deal with booleans and timings.
type Result struct {
	// Index is the dispatch index of the probe in [0, count).
	Index int

	// URL is the target the probe was assigned to.
	URL string

	// Success is true iff a response was received with a 2xx status.
	Success bool

	// StatusCode is the HTTP status code, or 0 if no response was received.
	StatusCode int

	// ElapsedMs is the wall-clock duration of the probe in milliseconds.
	ElapsedMs int64
}

// Elapsed returns ElapsedMs as a time.Duration.
func (r Result) Elapsed() time.Duration {
	return time.Duration(r.ElapsedMs) * time.Millisecond
}

// Classify reports whether a response counts as a successful probe.
//
// A transport failure is never a success, even if a status code was read
// before the failure occurred.
func Classify(resp Response) bool {
	if resp.Error != nil {
		return false
	}
	return IsSuccessStatus(resp.StatusCode)
}

// IsSuccessStatus reports whether code is in the 2xx range.
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

// NewClock returns the real time source used to time probes.
func NewClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

// ElapsedMillis returns end-start in whole milliseconds, never negative.
func ElapsedMillis(start, end time.Time) int64 {
	ms := end.Sub(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
