// Package matcher implements ports.PatternMatcher on top of the Aho-Corasick
// core in internal/domain/automaton. It narrows the domain API to the port
// contract and adds the set-semantics policy: Match deduplicates, Find
// reports every occurrence.
package matcher

import (
	"fmt"
	"sync"

	"github.com/so1ar-ec1ipse/pattern-search/internal/domain/automaton"
	"github.com/so1ar-ec1ipse/pattern-search/internal/ports"
)

// engine is the slice of the automaton API the adapter needs. Both the
// map-based and the byte-table representations satisfy it.
type engine interface {
	AddPattern(pattern string) error
	Build() error
	Match(text string) ([]string, error)
	Find(text string) ([]automaton.Match, error)
}

// Matcher implements ports.PatternMatcher. Rebuild swaps the frozen automaton
// wholesale under a mutex; Match and Find take a snapshot of the pointer and
// then run lock-free, since a built automaton is immutable.
type Matcher struct {
	mu       sync.RWMutex
	eng      engine
	patterns []string
	dense    bool
}

// New returns a matcher with an empty pattern set. When dense is true the
// byte-table automaton representation is used (faster scan loop, more memory).
func New(dense bool) *Matcher {
	return &Matcher{dense: dense}
}

// Rebuild replaces the entire pattern set and reconstructs the automaton.
func (m *Matcher) Rebuild(patterns []string) error {
	var eng engine
	if m.dense {
		eng = automaton.NewDense()
	} else {
		eng = automaton.New()
	}
	for _, p := range patterns {
		if err := eng.AddPattern(p); err != nil {
			return fmt.Errorf("pattern %q: %w", p, err)
		}
	}
	if err := eng.Build(); err != nil {
		return err
	}

	snapshot := make([]string, len(patterns))
	copy(snapshot, patterns)

	m.mu.Lock()
	m.eng = eng
	m.patterns = snapshot
	m.mu.Unlock()
	return nil
}

func (m *Matcher) snapshot() engine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.eng
}

// Match returns the distinct patterns found in content, in order of first
// occurrence. Returns nil before the first Rebuild or when nothing matches.
func (m *Matcher) Match(content string) []string {
	eng := m.snapshot()
	if eng == nil {
		return nil
	}
	found, err := eng.Match(content)
	if err != nil || len(found) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(found))
	var result []string
	for _, p := range found {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}

// Find returns every pattern occurrence in content with byte offsets,
// overlapping occurrences included, in scan order.
func (m *Matcher) Find(content string) []ports.TextMatch {
	eng := m.snapshot()
	if eng == nil {
		return nil
	}
	found, err := eng.Find(content)
	if err != nil || len(found) == 0 {
		return nil
	}

	matches := make([]ports.TextMatch, len(found))
	for i, f := range found {
		matches[i] = ports.TextMatch{Pattern: f.Pattern, Start: f.Start, End: f.End}
	}
	return matches
}

// Patterns returns the current pattern set.
func (m *Matcher) Patterns() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.patterns
}
