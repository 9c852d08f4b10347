package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalPlan(t *testing.T) {
	yaml := `
urls:
  - https://example.com
`
	plan, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(plan.URLs) != 1 {
		t.Errorf("len(URLs) = %d, want 1", len(plan.URLs))
	}
	if plan.Count != nil {
		t.Errorf("Count = %v, want nil", *plan.Count)
	}
	if plan.Concurrency != 0 {
		t.Errorf("Concurrency = %d, want 0", plan.Concurrency)
	}
}

func TestParse_FullPlan(t *testing.T) {
	yaml := `
urls:
  - https://api.example.com/a
  - http://api.example.com/b
count: 250
concurrency: 8
timeout: 1500ms
headers:
  Authorization: Bearer token123
  X-Custom: value
`
	plan, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(plan.URLs) != 2 || plan.URLs[1] != "http://api.example.com/b" {
		t.Errorf("URLs = %v, want two urls ending in /b", plan.URLs)
	}
	if plan.Count == nil || *plan.Count != 250 {
		t.Errorf("Count = %v, want 250", plan.Count)
	}
	if plan.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", plan.Concurrency)
	}
	if plan.Timeout.Duration() != 1500*time.Millisecond {
		t.Errorf("Timeout = %v, want 1.5s", plan.Timeout.Duration())
	}
	if plan.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("Headers[Authorization] = %q, want %q", plan.Headers["Authorization"], "Bearer token123")
	}
}

func TestParse_ZeroCountIsSet(t *testing.T) {
	plan, err := Parse([]byte("count: 0\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if plan.Count == nil {
		t.Fatal("Count = nil, want explicit 0")
	}
	if *plan.Count != 0 {
		t.Errorf("Count = %d, want 0", *plan.Count)
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("TEST_API_HOST", "api.test.com")
	t.Setenv("TEST_API_TOKEN", "secret123")

	yaml := `
urls:
  - https://${TEST_API_HOST}/health
headers:
  Authorization: "Bearer ${TEST_API_TOKEN}"
`
	plan, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if plan.URLs[0] != "https://api.test.com/health" {
		t.Errorf("URL = %q, want https://api.test.com/health", plan.URLs[0])
	}
	if plan.Headers["Authorization"] != "Bearer secret123" {
		t.Errorf("Headers[Authorization] = %q, want 'Bearer secret123'", plan.Headers["Authorization"])
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	yaml := `
urls:
  - https://${UNSET_VAR:-fallback.example.com}/health
`
	plan, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if plan.URLs[0] != "https://fallback.example.com/health" {
		t.Errorf("URL = %q, want https://fallback.example.com/health", plan.URLs[0])
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	// MISSING_VAR is expected to not exist in the environment
	yaml := `
urls:
  - https://${MISSING_VAR}/health
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "MISSING_VAR") {
		t.Errorf("error should mention MISSING_VAR: %v", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "urls and url_file",
			yaml:    "urls: [https://example.com]\nurl_file: urls.txt\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "empty url",
			yaml:    "urls: ['']\n",
			wantErr: "urls[0]: url is required",
		},
		{
			name:    "missing scheme",
			yaml:    "urls: [https://ok.example.com, example.com/health]\n",
			wantErr: "urls[1]",
		},
		{
			name:    "ftp scheme",
			yaml:    "urls: [ftp://example.com]\n",
			wantErr: "scheme must be http or https",
		},
		{
			name:    "negative count",
			yaml:    "count: -1\n",
			wantErr: "count cannot be negative",
		},
		{
			name:    "negative concurrency",
			yaml:    "concurrency: -2\n",
			wantErr: "concurrency must be positive",
		},
		{
			name:    "negative timeout",
			yaml:    "timeout: -1s\n",
			wantErr: "timeout cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	yaml := `
this is not: valid: yaml: at all
  - broken
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", "10s", 10 * time.Second, false},
		{"milliseconds", "1500ms", 1500 * time.Millisecond, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"combined", "1m30s", 90 * time.Second, false},
		{"invalid", "not-a-duration", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Parse([]byte("timeout: " + tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() expected error, got nil")
				}
				if !strings.Contains(err.Error(), "invalid duration") {
					t.Errorf("error = %q, want to contain 'invalid duration'", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if plan.Timeout.Duration() != tt.want {
				t.Errorf("Timeout = %v, want %v", plan.Timeout.Duration(), tt.want)
			}
		})
	}
}

func TestLoad_ResolvesRelativeURLFile(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.yaml")
	if err := os.WriteFile(planPath, []byte("url_file: targets.txt\ncount: 3\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	plan, err := Load(planPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := filepath.Join(dir, "targets.txt")
	if plan.URLFile != want {
		t.Errorf("URLFile = %q, want %q", plan.URLFile, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read plan file") {
		t.Errorf("error = %q, want to contain 'failed to read plan file'", err.Error())
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://localhost:8080/path?q=1", false},
		{"example.com", true},
		{"ftp://example.com", true},
		{"http://", true},
		{"://bad", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"multiple vars", "${TEST_VAR}-${TEST_VAR}", "value-value", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty var", "${EMPTY_VAR}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}
