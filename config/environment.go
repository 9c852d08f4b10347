package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment holds settings read from HTTPLOAD_* environment variables.
type Environment struct {
	LogLevel  slog.Level `env:"HTTPLOAD_LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"HTTPLOAD_LOG_FORMAT" envDefault:"json"`

	// Output is the default report format when --output is not given.
	Output string `env:"HTTPLOAD_OUTPUT" envDefault:"text"`
}

// LoadEnvironment parses the process environment.
func LoadEnvironment() (*Environment, error) {
	return parseEnvironment(env.Options{})
}

// LoadEnvironmentFrom parses the given variables instead of the process
// environment.
func LoadEnvironmentFrom(vars map[string]string) (*Environment, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return parseEnvironment(env.Options{Environment: vars})
}

func parseEnvironment(opts env.Options) (*Environment, error) {
	e, err := env.ParseAsWithOptions[Environment](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	e.LogFormat = strings.ToLower(strings.TrimSpace(e.LogFormat))
	switch e.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("HTTPLOAD_LOG_FORMAT must be json or text, got %q", e.LogFormat)
	}

	return &e, nil
}
