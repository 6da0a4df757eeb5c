// Package automaton implements Aho-Corasick multi-pattern string matching.
// Given a set of patterns, one pass over the text finds every occurrence of
// every pattern, overlaps included. This is O(n + m + z) where n=text length,
// m=total pattern length, z=number of matches — independent of pattern count.
//
// Lifecycle: AddPattern any number of times, Build exactly once, then Match or
// Find any number of times. A built automaton is immutable; concurrent
// Match/Find calls from multiple goroutines need no locking.
//
// Nodes live in a single arena slice and reference each other by index, so the
// trie's child edges and the failure (fallback) cross-links never form owned
// cycles. Transitions are keyed by rune, which handles arbitrary alphabets;
// see DenseAutomaton for the byte-table alternative.
package automaton

import (
	"errors"
	"unicode/utf8"
)

// Sentinel errors for lifecycle violations. All are reported synchronously at
// the call that violates the contract; Match and Find never fail on a built
// automaton for any input text.
var (
	ErrEmptyPattern = errors.New("automaton: empty pattern")
	ErrNotBuilt     = errors.New("automaton: not built")
	ErrAlreadyBuilt = errors.New("automaton: already built")
)

// rootState is the arena index of the root (empty-prefix) state.
const rootState int32 = 0

// Match is a single pattern occurrence in the scanned text.
// Start/End are byte offsets, End exclusive.
type Match struct {
	Pattern string
	Index   int // index of the pattern insertion (AddPattern call order)
	Start   int
	End     int
}

// node is one trie state. next holds child edges (owned, tree-shaped); fail is
// a non-owning cross-link to the longest proper suffix state; out lists the
// insertion IDs of every pattern that ends at this state, own entries first,
// then the fail chain's (merged during Build). A state with a non-empty out
// before the merge is a terminal state (some pattern ends exactly there).
type node struct {
	next map[rune]int32
	fail int32
	out  []int32
}

// Automaton is a rune-keyed Aho-Corasick automaton.
type Automaton struct {
	nodes    []node
	patterns []string // one entry per AddPattern call; duplicates kept
	built    bool
}

// New returns an empty automaton containing only the root state.
func New() *Automaton {
	return &Automaton{
		nodes: []node{{next: map[rune]int32{}}},
	}
}

// AddPattern inserts one pattern into the trie, creating states on demand.
// Empty patterns are rejected (an empty pattern would make the root terminal
// and match at every position). Inserting the same literal pattern twice keeps
// both copies: each occurrence is then reported once per insertion.
func (a *Automaton) AddPattern(pattern string) error {
	if a.built {
		return ErrAlreadyBuilt
	}
	if pattern == "" {
		return ErrEmptyPattern
	}

	cur := rootState
	for _, r := range pattern {
		next, ok := a.nodes[cur].next[r]
		if !ok {
			next = int32(len(a.nodes))
			a.nodes = append(a.nodes, node{next: map[rune]int32{}})
			a.nodes[cur].next[r] = next
		}
		cur = next
	}

	id := int32(len(a.patterns))
	a.patterns = append(a.patterns, pattern)
	a.nodes[cur].out = append(a.nodes[cur].out, id)
	return nil
}

// Build computes failure links and merges output sets, freezing the automaton.
// Must be called exactly once, after all insertions: the BFS merge assumes
// unmerged descendants, so a second call would double-count output sets and is
// rejected.
func (a *Automaton) Build() error {
	if a.built {
		return ErrAlreadyBuilt
	}

	// Depth-1 states fall back to root.
	queue := make([]int32, 0, len(a.nodes[rootState].next))
	for _, c := range a.nodes[rootState].next {
		a.nodes[c].fail = rootState
		queue = append(queue, c)
	}

	// Strict FIFO order: a state is processed only after every shallower
	// state's fail link is final, which the child-fail computation relies on.
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		for r, child := range a.nodes[n].next {
			queue = append(queue, child)

			// Walk n's fail chain to the deepest state with an r-edge.
			f := a.nodes[n].fail
			for f != rootState {
				if _, ok := a.nodes[f].next[r]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if t, ok := a.nodes[f].next[r]; ok {
				a.nodes[child].fail = t
			} else {
				a.nodes[child].fail = rootState
			}

			// The fail target is shallower, so its out list is already fully
			// merged; appending it completes this child's in one step.
			fail := a.nodes[child].fail
			if len(a.nodes[fail].out) > 0 {
				a.nodes[child].out = append(a.nodes[child].out, a.nodes[fail].out...)
			}
		}
	}

	a.built = true
	return nil
}

// step advances one symbol through the goto function: follow fail links until
// a state with an r-edge is found, else rest at root.
func (a *Automaton) step(cur int32, r rune) int32 {
	for {
		if next, ok := a.nodes[cur].next[r]; ok {
			return next
		}
		if cur == rootState {
			return rootState
		}
		cur = a.nodes[cur].fail
	}
}

// Match scans text and returns every pattern occurrence in scan order; within
// one text position, a state's own patterns come first (in insertion order),
// then those inherited over the fail chain. Returns nil when nothing matches.
func (a *Automaton) Match(text string) ([]string, error) {
	if !a.built {
		return nil, ErrNotBuilt
	}

	var found []string
	cur := rootState
	for _, r := range text {
		cur = a.step(cur, r)
		for _, id := range a.nodes[cur].out {
			found = append(found, a.patterns[id])
		}
	}
	return found, nil
}

// Find is the position-aware variant of Match: each occurrence carries the
// byte offsets of the matched substring. Same ordering contract as Match.
func (a *Automaton) Find(text string) ([]Match, error) {
	if !a.built {
		return nil, ErrNotBuilt
	}

	var found []Match
	cur := rootState
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		cur = a.step(cur, r)
		end := i + w
		i = end
		if len(a.nodes[cur].out) == 0 {
			continue
		}
		for _, id := range a.nodes[cur].out {
			p := a.patterns[id]
			found = append(found, Match{
				Pattern: p,
				Index:   int(id),
				Start:   end - len(p),
				End:     end,
			})
		}
	}
	return found, nil
}

// Built reports whether Build has run.
func (a *Automaton) Built() bool {
	return a.built
}

// PatternCount returns the number of inserted patterns (duplicates counted).
func (a *Automaton) PatternCount() int {
	return len(a.patterns)
}

// Pattern returns the pattern inserted by the idx-th AddPattern call.
func (a *Automaton) Pattern(idx int) string {
	if idx < 0 || idx >= len(a.patterns) {
		return ""
	}
	return a.patterns[idx]
}
