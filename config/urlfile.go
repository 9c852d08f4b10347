package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadURLFile reads a newline-delimited list of URLs.
//
// Each non-empty line is one URL, with surrounding whitespace trimmed. There
// is no escaping and no comment syntax. Every URL is validated; the error
// names the offending line.
func LoadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open url file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		u := strings.TrimSpace(scanner.Text())
		if u == "" {
			continue
		}
		if err := ValidateURL(u); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		urls = append(urls, u)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read url file: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("url file %s contains no urls", path)
	}
	return urls, nil
}
