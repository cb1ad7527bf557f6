package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON extracts and unmarshals the first JSON object in an LLM
// response into T. Markdown fences and text around the object are ignored.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}

	// The decoder stops after the first complete value, so trailing prose
	// and closing fences are never read.
	dec := json.NewDecoder(strings.NewReader(response[start:]))
	var result T
	if err := dec.Decode(&result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, truncate(response[start:], 200))
	}

	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
