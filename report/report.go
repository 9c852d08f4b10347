// Package report renders an [httpload.Report] for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/httpload"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat converts s to a [Format]. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *httpload.Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return nil

	case FormatText, "":
		_, err := io.WriteString(w, Text(r))
		return err

	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// Text renders the human-readable report: one block per URL with the success
// and failure counts, requests per second, and the min, max and mean request
// time in seconds, followed by a run summary.
func Text(r *httpload.Report) string {
	var sb strings.Builder

	for _, u := range r.URLs {
		fmt.Fprintf(&sb, "URL: %s\n", u.URL)
		fmt.Fprintf(&sb, "  Successful requests: %d\n", u.Successful)
		fmt.Fprintf(&sb, "  Failed requests:     %d\n", u.Failed)
		fmt.Fprintf(&sb, "  Requests/second:     %.2f\n", u.Throughput)
		fmt.Fprintf(&sb, "  Total request time (min, max, mean): %.2f, %.2f, %.2f seconds\n", u.Min, u.Max, u.Mean)
		fmt.Fprintf(&sb, "  Percentiles (p50, p95, p99):         %.2f, %.2f, %.2f seconds\n", u.P50, u.P95, u.P99)
		if codes := statusLine(u.StatusCodes); codes != "" {
			fmt.Fprintf(&sb, "  Status codes:        %s\n", codes)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Run %s: %d requests (%d succeeded, %d failed), concurrency %d, %.2fs wall clock, %.2f requests/second overall\n",
		r.RunID,
		r.Succeeded()+r.Failed(),
		r.Succeeded(),
		r.Failed(),
		r.Concurrency,
		r.Duration.Seconds(),
		r.WallThroughput(),
	)

	return sb.String()
}

// statusLine renders a status code histogram in code order. Code 0 stands for
// probes that never got a response.
func statusLine(codes map[int]int) string {
	if len(codes) == 0 {
		return ""
	}

	keys := make([]int, 0, len(codes))
	for k := range codes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		label := fmt.Sprint(k)
		if k == 0 {
			label = "error"
		}
		parts = append(parts, fmt.Sprintf("%s=%d", label, codes[k]))
	}
	return strings.Join(parts, " ")
}
