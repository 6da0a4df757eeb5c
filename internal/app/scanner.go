package app

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/so1ar-ec1ipse/pattern-search/internal/ports"
)

// LineMatch is one matching line of a scanned input, with every pattern
// occurrence on that line.
type LineMatch struct {
	File    string // "" for stdin
	Line    int    // 1-based
	Text    string
	Matches []ports.TextMatch // offsets relative to Text
}

// ScanResult aggregates one scan run.
type ScanResult struct {
	Lines      []LineMatch
	MatchCount int // total pattern occurrences
}

// Scanner streams inputs line by line through a pattern matcher. The matcher
// is frozen for the scan's duration, so one Scanner may run scans on many
// goroutines.
type Scanner struct {
	matcher ports.PatternMatcher
}

// NewScanner creates a scanner over the given matcher.
func NewScanner(m ports.PatternMatcher) *Scanner {
	return &Scanner{matcher: m}
}

// ScanReader scans one input stream. name labels the source in results.
func (s *Scanner) ScanReader(name string, r io.Reader) (*ScanResult, error) {
	result := &ScanResult{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		found := s.matcher.Find(text)
		if len(found) == 0 {
			continue
		}
		result.Lines = append(result.Lines, LineMatch{
			File:    name,
			Line:    lineNo,
			Text:    text,
			Matches: found,
		})
		result.MatchCount += len(found)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", displayName(name), err)
	}
	return result, nil
}

// ScanFiles scans each named file in order, merging results. Per-file open
// errors abort the scan.
func (s *Scanner) ScanFiles(paths []string) (*ScanResult, error) {
	merged := &ScanResult{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		result, err := s.ScanReader(path, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		merged.Lines = append(merged.Lines, result.Lines...)
		merged.MatchCount += result.MatchCount
	}
	return merged, nil
}

func displayName(name string) string {
	if name == "" {
		return "stdin"
	}
	return name
}
