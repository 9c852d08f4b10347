// Package config resolves the configuration of a load test run from a YAML
// plan file, a URL list file, command-line flags and the environment.
//
// Example plan:
//
//	urls:
//	  - https://api.example.com/health
//	  - https://${API_HOST:-staging.example.com}/items
//	count: 500
//	concurrency: 16
//	timeout: 2s
//	headers:
//	  Authorization: Bearer ${API_TOKEN}
//
// A plan names its targets either inline (urls) or through a URL list file
// (url_file), never both.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Plan is the root structure of a YAML plan file.
//
// Use [Load] or [Parse] to create a Plan from YAML. Zero values mean "not
// set"; defaults are applied by [Resolve].
type Plan struct {
	// URLs are the probe targets, in round-robin order.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URLs []string `yaml:"urls"`

	// URLFile is a newline-delimited URL list. Relative paths are resolved
	// against the plan file's directory by [Load].
	URLFile string `yaml:"url_file"`

	// Count is the total number of probes. nil means not set, since zero is
	// a valid count.
	Count *int `yaml:"count"`

	// Concurrency is the worker pool size.
	Concurrency int `yaml:"concurrency"`

	// Timeout bounds each probe. Accepts duration strings like "500ms", "2s".
	Timeout Duration `yaml:"timeout"`

	// Headers are sent with every probe. Values support environment
	// variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML plan file.
//
// A relative url_file is resolved against the directory of path.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if plan.URLFile != "" && !filepath.IsAbs(plan.URLFile) {
		plan.URLFile = filepath.Join(filepath.Dir(path), plan.URLFile)
	}
	return plan, nil
}

// Parse parses YAML plan data.
//
// Environment variables are expanded in URLs, the URL file path, and header
// values.
func Parse(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := plan.expandAndValidate(); err != nil {
		return nil, err
	}

	return &plan, nil
}

// expandAndValidate expands environment variables and validates the plan.
func (p *Plan) expandAndValidate() error {
	if len(p.URLs) > 0 && p.URLFile != "" {
		return errors.New("urls and url_file are mutually exclusive")
	}

	for i, raw := range p.URLs {
		if raw == "" {
			return fmt.Errorf("urls[%d]: url is required", i)
		}
		expanded, err := expandEnvVars(raw)
		if err != nil {
			return fmt.Errorf("urls[%d]: %w", i, err)
		}
		if err := ValidateURL(expanded); err != nil {
			return fmt.Errorf("urls[%d]: %w", i, err)
		}
		p.URLs[i] = expanded
	}

	if p.URLFile != "" {
		expanded, err := expandEnvVars(p.URLFile)
		if err != nil {
			return fmt.Errorf("url_file: %w", err)
		}
		p.URLFile = expanded
	}

	if p.Count != nil && *p.Count < 0 {
		return fmt.Errorf("count cannot be negative, got %d", *p.Count)
	}

	if p.Concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", p.Concurrency)
	}

	if p.Timeout.Duration() < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", p.Timeout.Duration())
	}

	for k, v := range p.Headers {
		if k == "" {
			return errors.New("headers: key cannot be empty")
		}
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("headers[%s]: %w", k, err)
		}
		p.Headers[k] = expanded
	}

	return nil
}

// ValidateURL checks that raw is an absolute http or https URL.
func ValidateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("url %q must have a scheme (http:// or https://)", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
