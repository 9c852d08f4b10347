package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jpalmerr/httpload"
)

const (
	DefaultCount       = 10
	DefaultConcurrency = 1
)

// Flags carries command-line values. The *Set fields record whether a flag
// was given explicitly, so an explicit zero still overrides the plan.
type Flags struct {
	URL  string
	File string

	Count    int
	CountSet bool

	Concurrency    int
	ConcurrencySet bool

	Timeout    time.Duration
	TimeoutSet bool

	// Headers holds raw "Key: Value" pairs.
	Headers []string
}

// Run is a fully resolved load test configuration.
type Run struct {
	URLs        []string          `yaml:"urls" json:"urls"`
	Count       int               `yaml:"count" json:"count"`
	Concurrency int               `yaml:"concurrency" json:"concurrency"`
	Timeout     time.Duration     `yaml:"timeout" json:"timeout"`
	Headers     map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// Resolve merges flags over an optional plan and applies defaults.
//
// Targets come from exactly one source: --url, --file, or the plan. Giving
// both --url and --file is an error; giving neither is only valid when the
// plan names targets. Other flags win over plan values when set.
func Resolve(plan *Plan, flags Flags) (*Run, error) {
	if plan == nil {
		plan = &Plan{}
	}

	urls, err := resolveURLs(plan, flags)
	if err != nil {
		return nil, err
	}

	run := &Run{
		URLs:        urls,
		Count:       DefaultCount,
		Concurrency: DefaultConcurrency,
		Timeout:     plan.Timeout.Duration(),
	}

	if plan.Count != nil {
		run.Count = *plan.Count
	}
	if flags.CountSet {
		run.Count = flags.Count
	}
	if run.Count < 0 {
		return nil, fmt.Errorf("count cannot be negative, got %d", run.Count)
	}

	if plan.Concurrency > 0 {
		run.Concurrency = plan.Concurrency
	}
	if flags.ConcurrencySet {
		run.Concurrency = flags.Concurrency
	}
	if run.Concurrency < 1 {
		return nil, fmt.Errorf("concurrent threads must be at least 1, got %d", run.Concurrency)
	}

	if flags.TimeoutSet {
		run.Timeout = flags.Timeout
	}
	if run.Timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative, got %s", run.Timeout)
	}

	headers := make(map[string]string, len(plan.Headers)+len(flags.Headers))
	for k, v := range plan.Headers {
		headers[k] = v
	}
	for _, raw := range flags.Headers {
		k, v, err := ParseHeader(raw)
		if err != nil {
			return nil, err
		}
		headers[k] = v
	}
	if len(headers) > 0 {
		run.Headers = headers
	}

	return run, nil
}

func resolveURLs(plan *Plan, flags Flags) ([]string, error) {
	switch {
	case flags.URL != "" && flags.File != "":
		return nil, errors.New("--url and --file are mutually exclusive")

	case flags.URL != "":
		if err := ValidateURL(flags.URL); err != nil {
			return nil, fmt.Errorf("--url: %w", err)
		}
		return []string{flags.URL}, nil

	case flags.File != "":
		return LoadURLFile(flags.File)

	case len(plan.URLs) > 0:
		return append([]string(nil), plan.URLs...), nil

	case plan.URLFile != "":
		return LoadURLFile(plan.URLFile)

	default:
		return nil, errors.New("one of --url or --file is required")
	}
}

// ParseHeader splits a "Key: Value" pair. Whitespace around both parts is
// trimmed; the value may be empty and may itself contain colons.
func ParseHeader(raw string) (string, string, error) {
	k, v, ok := strings.Cut(raw, ":")
	if !ok {
		return "", "", fmt.Errorf("header %q must be in key:value form", raw)
	}
	k = strings.TrimSpace(k)
	if k == "" {
		return "", "", fmt.Errorf("header %q has an empty key", raw)
	}
	return k, strings.TrimSpace(v), nil
}

// Options converts the resolved configuration into SDK options.
func (r *Run) Options() []httpload.Option {
	opts := []httpload.Option{
		httpload.WithURLs(r.URLs...),
		httpload.WithCount(r.Count),
		httpload.WithConcurrency(r.Concurrency),
	}

	if r.Timeout > 0 {
		opts = append(opts, httpload.WithTimeout(r.Timeout))
	}

	if len(r.Headers) > 0 {
		opts = append(opts, httpload.WithHeaders(mapToKeyValuePairs(r.Headers)...))
	}

	return opts
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
