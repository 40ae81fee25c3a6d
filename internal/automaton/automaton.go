// Package automaton defines the transition tables the scanner runs.
//
// Tables are produced offline (or assembled with Builder) and treated as
// immutable data once validated. A single Table may be shared by any number
// of concurrent scans.
package automaton

import (
	"errors"
	"fmt"
	"sort"
)

// StateID indexes Table.States.
type StateID int

// PatternID identifies the pattern an accepting state completes.
type PatternID int

// Edge is a transition taken on any byte in [Lo, Hi].
type Edge struct {
	Lo, Hi byte
	Next   StateID
}

// State is one node of a DFA.
//
// Edges are sorted by Lo and do not overlap. Mark and Rewind refer to
// post-context slots numbered from 1; zero means none. A state with Mark set
// records the input position when it is entered. An accepting state with
// Rewind set reports the position stored in that slot as the end of its
// lexeme, which implements trailing context.
type State struct {
	Edges     []Edge
	Accept    PatternID
	HasAccept bool
	Mark      int
	Rewind    int
}

// Table is the DFA of one scanner mode.
type Table struct {
	Name    string
	Initial StateID
	States  []State
}

var (
	// ErrInitialAccepting is returned for tables that could match the empty string.
	ErrInitialAccepting = errors.New("automaton: initial state is accepting")
	// ErrNoStates is returned for tables without states.
	ErrNoStates = errors.New("automaton: table has no states")
)

// Next returns the target of the edge leaving s on c.
func (t *Table) Next(s StateID, c byte) (StateID, bool) {
	edges := t.States[s].Edges
	lo, hi := 0, len(edges)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		e := &edges[m]
		switch {
		case c < e.Lo:
			hi = m
		case c > e.Hi:
			lo = m + 1
		default:
			return e.Next, true
		}
	}
	return 0, false
}

// Slots returns the number of post-context slots the table refers to.
func (t *Table) Slots() int {
	n := 0
	for i := range t.States {
		n = max(n, t.States[i].Mark, t.States[i].Rewind)
	}
	return n
}

// Patterns returns the sorted set of pattern ids accepted by some state.
func (t *Table) Patterns() []PatternID {
	seen := make(map[PatternID]bool)
	var ids []PatternID
	for i := range t.States {
		st := &t.States[i]
		if st.HasAccept && !seen[st.Accept] {
			seen[st.Accept] = true
			ids = append(ids, st.Accept)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks the structural invariants the runner relies on.
func (t *Table) Validate() error {
	if len(t.States) == 0 {
		return t.errorf("%w", ErrNoStates)
	}
	if t.Initial < 0 || int(t.Initial) >= len(t.States) {
		return t.errorf("initial state %d out of range", t.Initial)
	}
	if t.States[t.Initial].HasAccept {
		return t.errorf("%w", ErrInitialAccepting)
	}

	marked := make(map[int]bool)
	for i := range t.States {
		if m := t.States[i].Mark; m > 0 {
			marked[m] = true
		}
	}

	for i := range t.States {
		st := &t.States[i]
		for j, e := range st.Edges {
			if e.Lo > e.Hi {
				return t.errorf("state %d edge %d: range [%d, %d] is empty", i, j, e.Lo, e.Hi)
			}
			if e.Next < 0 || int(e.Next) >= len(t.States) {
				return t.errorf("state %d edge %d: target %d out of range", i, j, e.Next)
			}
			if j > 0 && st.Edges[j-1].Hi >= e.Lo {
				return t.errorf("state %d edge %d: overlaps or is out of order", i, j)
			}
		}
		if st.HasAccept && st.Accept < 0 {
			return t.errorf("state %d: negative pattern id %d", i, st.Accept)
		}
		if st.Mark < 0 || st.Rewind < 0 {
			return t.errorf("state %d: negative post-context slot", i)
		}
		if st.Rewind > 0 {
			if !st.HasAccept {
				return t.errorf("state %d: rewind slot on a non-accepting state", i)
			}
			if !marked[st.Rewind] {
				return t.errorf("state %d: rewind slot %d is never marked", i, st.Rewind)
			}
		}
	}
	return t.checkRewinds()
}

// checkRewinds rejects rewinding states that some path from the initial
// state reaches without passing a state that marks the slot. avail[s] holds
// the slots marked on every path into s; nil means s is not reached yet.
func (t *Table) checkRewinds() error {
	slots := t.Slots()
	avail := make([][]bool, len(t.States))
	avail[t.Initial] = make([]bool, slots+1)
	queue := []StateID{t.Initial}
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]
		for _, e := range t.States[from].Edges {
			in := append([]bool(nil), avail[from]...)
			if m := t.States[e.Next].Mark; m > 0 {
				in[m] = true
			}
			cur := avail[e.Next]
			if cur == nil {
				avail[e.Next] = in
				queue = append(queue, e.Next)
				continue
			}
			changed := false
			for k := range cur {
				if cur[k] && !in[k] {
					cur[k] = false
					changed = true
				}
			}
			if changed {
				queue = append(queue, e.Next)
			}
		}
	}

	for i := range t.States {
		st := &t.States[i]
		if st.Rewind > 0 && avail[i] != nil && !avail[i][st.Rewind] {
			return t.errorf("state %d: rewind slot %d is not marked on every path", i, st.Rewind)
		}
	}
	return nil
}

func (t *Table) errorf(format string, args ...any) error {
	return fmt.Errorf("automaton: table %q: "+format, append([]any{t.Name}, args...)...)
}
