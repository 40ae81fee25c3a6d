package automaton

import (
	"fmt"
	"sort"
)

// Builder assembles a Table state by state.
//
//	b := automaton.NewBuilder("program")
//	ident := b.State()
//	b.Range(b.Initial(), 'a', 'z', ident)
//	b.Range(ident, 'a', 'z', ident)
//	b.Accept(ident, 0)
//	table, err := b.Build()
//
// Builder does not compile patterns; it only records edges and acceptance.
type Builder struct {
	table Table
	errs  []error
}

// NewBuilder creates a builder whose table already holds the initial state.
func NewBuilder(name string) *Builder {
	b := &Builder{table: Table{Name: name}}
	b.table.Initial = b.State()
	return b
}

// Initial returns the initial state.
func (b *Builder) Initial() StateID {
	return b.table.Initial
}

// State appends a fresh state and returns its id.
func (b *Builder) State() StateID {
	b.table.States = append(b.table.States, State{})
	return StateID(len(b.table.States) - 1)
}

// Range adds an edge from -> to on every byte in [lo, hi].
func (b *Builder) Range(from StateID, lo, hi byte, to StateID) *Builder {
	if !b.valid(from) {
		return b
	}
	b.table.States[from].Edges = append(b.table.States[from].Edges, Edge{Lo: lo, Hi: hi, Next: to})
	return b
}

// Byte adds an edge from -> to on c.
func (b *Builder) Byte(from StateID, c byte, to StateID) *Builder {
	return b.Range(from, c, c, to)
}

// Bytes adds an edge from -> to on each byte of set.
func (b *Builder) Bytes(from StateID, set string, to StateID) *Builder {
	for i := 0; i < len(set); i++ {
		b.Byte(from, set[i], to)
	}
	return b
}

// Literal adds a chain of fresh states spelling s from the given state and
// returns the last one.
func (b *Builder) Literal(from StateID, s string) StateID {
	cur := from
	for i := 0; i < len(s); i++ {
		next := b.State()
		b.Byte(cur, s[i], next)
		cur = next
	}
	return cur
}

// Accept marks s as completing pattern id. When s already accepts a pattern,
// the lower id is kept, so the pattern declared first wins ties.
func (b *Builder) Accept(s StateID, id PatternID) *Builder {
	if !b.valid(s) {
		return b
	}
	st := &b.table.States[s]
	if !st.HasAccept || id < st.Accept {
		st.Accept = id
		st.HasAccept = true
	}
	return b
}

// Mark makes s record the input position in post-context slot when entered.
func (b *Builder) Mark(s StateID, slot int) *Builder {
	if b.valid(s) {
		b.table.States[s].Mark = slot
	}
	return b
}

// Rewind makes the accepting state s end its lexeme at the position stored
// in post-context slot.
func (b *Builder) Rewind(s StateID, slot int) *Builder {
	if b.valid(s) {
		b.table.States[s].Rewind = slot
	}
	return b
}

// Build sorts each state's edges and validates the table.
func (b *Builder) Build() (*Table, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	t := b.table
	t.States = make([]State, len(b.table.States))
	for i, st := range b.table.States {
		st.Edges = append([]Edge(nil), st.Edges...)
		sort.SliceStable(st.Edges, func(x, y int) bool { return st.Edges[x].Lo < st.Edges[y].Lo })
		t.States[i] = st
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// MustBuild is like Build but panics on error. It is meant for tables
// declared at package level.
func (b *Builder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

func (b *Builder) valid(s StateID) bool {
	if s < 0 || int(s) >= len(b.table.States) {
		b.errs = append(b.errs, fmt.Errorf("automaton: table %q: unknown state %d", b.table.Name, s))
		return false
	}
	return true
}
