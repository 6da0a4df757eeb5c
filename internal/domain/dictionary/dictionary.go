// Package dictionary handles pattern-set parsing and policy: turning a
// delimiter-separated spec string, a pattern file, or a stored record into the
// clean list of non-empty patterns the automaton consumes.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Parse splits a pattern spec on pipe characters and whitespace and discards
// empty tokens. "cat|dog", "cat dog" and "cat | dog" all parse to the same
// two patterns. Returns nil for a spec with no tokens.
func Parse(spec string) []string {
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == '|' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Normalize trims surrounding whitespace, drops empty entries, and
// deduplicates preserving first occurrence. This is the store-level policy:
// a saved dictionary holds each pattern once. (The automaton itself keeps
// duplicate insertions; callers that want multiplicity skip Normalize.)
func Normalize(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	var out []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// LoadFile reads a pattern file: one pattern per line, '#' starts a comment,
// blank lines ignored. The result is normalized.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pattern file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	return Normalize(patterns), nil
}
