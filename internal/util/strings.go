package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// TrimAndLower trims whitespace and converts to lowercase
func TrimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TrimEmptyCheck trims whitespace and checks if non-empty
func TrimEmptyCheck(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// TrimWithDefault trims whitespace and returns default if empty
func TrimWithDefault(s, defaultValue string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return defaultValue
	}
	return trimmed
}

// SplitFlags splits a shell-style flag string such as
// "--node http://localhost:26657 --chain-id testing" into arguments.
// Shell operators (; & | < >) must be quoted to be part of a value.
func SplitFlags(s string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("split flags %q: %w", s, err)
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("split flags %q: unquoted shell operator at offset %d", s, p.Position)
	}
	return args, nil
}
