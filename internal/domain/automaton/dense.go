package automaton

// DenseAutomaton is the byte-alphabet alternative to Automaton: transitions
// are rows of 256 state indexes instead of rune-keyed maps, and Build
// precomputes the full goto function, so the scan loop is a single table load
// per input byte with no fail-chain walk. Matching is byte-wise, which is
// equivalent to rune-wise exact matching on UTF-8 text.
//
// Same contract as Automaton: AddPattern then a single Build, then concurrent
// read-only Match/Find; same sentinel errors; same output ordering.
type DenseAutomaton struct {
	rows     [][256]int32 // rows[s][b] = next state; noEdge until Build densifies
	fail     []int32
	out      [][]int32
	patterns []string
	built    bool
}

// noEdge marks a missing transition before Build replaces it with the
// precomputed goto target.
const noEdge int32 = -1

// NewDense returns an empty byte-table automaton containing only the root.
func NewDense() *DenseAutomaton {
	d := &DenseAutomaton{}
	d.addState()
	return d
}

func (d *DenseAutomaton) addState() int32 {
	var row [256]int32
	for i := range row {
		row[i] = noEdge
	}
	d.rows = append(d.rows, row)
	d.fail = append(d.fail, rootState)
	d.out = append(d.out, nil)
	return int32(len(d.rows) - 1)
}

// AddPattern inserts one pattern, one state per new prefix byte.
func (d *DenseAutomaton) AddPattern(pattern string) error {
	if d.built {
		return ErrAlreadyBuilt
	}
	if pattern == "" {
		return ErrEmptyPattern
	}

	cur := rootState
	for i := 0; i < len(pattern); i++ {
		b := pattern[i]
		next := d.rows[cur][b]
		if next == noEdge {
			next = d.addState()
			d.rows[cur][b] = next
		}
		cur = next
	}

	id := int32(len(d.patterns))
	d.patterns = append(d.patterns, pattern)
	d.out[cur] = append(d.out[cur], id)
	return nil
}

// Build computes failure links, merges output sets, then densifies: every
// missing edge is filled with the fail target's edge for the same byte, which
// is exactly the iterative goto function flattened into the table. After this
// the automaton is frozen.
func (d *DenseAutomaton) Build() error {
	if d.built {
		return ErrAlreadyBuilt
	}

	var queue []int32
	for b := 0; b < 256; b++ {
		c := d.rows[rootState][b]
		if c == noEdge {
			d.rows[rootState][b] = rootState
			continue
		}
		d.fail[c] = rootState
		queue = append(queue, c)
	}

	// BFS: by the time a state is dequeued, its own fail link and out list
	// are final and its row can be completed from its fail target's final row.
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		for b := 0; b < 256; b++ {
			child := d.rows[n][b]
			if child == noEdge {
				d.rows[n][b] = d.rows[d.fail[n]][b]
				continue
			}
			queue = append(queue, child)
			d.fail[child] = d.rows[d.fail[n]][b]
			if f := d.fail[child]; len(d.out[f]) > 0 {
				d.out[child] = append(d.out[child], d.out[f]...)
			}
		}
	}

	d.built = true
	return nil
}

// Match scans text and returns every pattern occurrence in scan order.
func (d *DenseAutomaton) Match(text string) ([]string, error) {
	if !d.built {
		return nil, ErrNotBuilt
	}

	var found []string
	cur := rootState
	for i := 0; i < len(text); i++ {
		cur = d.rows[cur][text[i]]
		for _, id := range d.out[cur] {
			found = append(found, d.patterns[id])
		}
	}
	return found, nil
}

// Find is the position-aware variant of Match; offsets are byte offsets.
func (d *DenseAutomaton) Find(text string) ([]Match, error) {
	if !d.built {
		return nil, ErrNotBuilt
	}

	var found []Match
	cur := rootState
	for i := 0; i < len(text); i++ {
		cur = d.rows[cur][text[i]]
		if len(d.out[cur]) == 0 {
			continue
		}
		end := i + 1
		for _, id := range d.out[cur] {
			p := d.patterns[id]
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
func (d *DenseAutomaton) Built() bool {
	return d.built
}

// PatternCount returns the number of inserted patterns (duplicates counted).
func (d *DenseAutomaton) PatternCount() int {
	return len(d.patterns)
}

// Pattern returns the pattern inserted by the idx-th AddPattern call.
func (d *DenseAutomaton) Pattern(idx int) string {
	if idx < 0 || idx >= len(d.patterns) {
		return ""
	}
	return d.patterns[idx]
}
