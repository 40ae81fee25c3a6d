package lex

import (
	"errors"
	"fmt"
	"maps"

	"github.com/shapestone/shape-lex/internal/automaton"
)

// Table, PatternID and TableBuilder expose the automaton types a grammar is
// assembled from.
type (
	Table        = automaton.Table
	PatternID    = automaton.PatternID
	TableBuilder = automaton.Builder
)

// NewTableBuilder starts a table for the named mode.
func NewTableBuilder(name string) *TableBuilder {
	return automaton.NewBuilder(name)
}

var (
	// ErrUnknownMode is returned when a mode name is not part of the grammar.
	ErrUnknownMode = errors.New("lex: unknown mode")
	// ErrMissingTerminal is returned when an accepting state has no terminal.
	ErrMissingTerminal = errors.New("lex: accepting pattern has no terminal")
)

// ActionFunc is the body of a terminal. It runs once per matched lexeme.
// An action that emits nothing lets the scanner continue with the next lexeme.
type ActionFunc func(ctx *Context)

// Terminal tells the dispatcher what to do when a pattern matches.
//
// With Action set, the action decides everything. Otherwise the lexeme is
// emitted as a token of Kind, unless Skip is set.
type Terminal struct {
	Kind     Kind
	Skip     bool
	Action   ActionFunc
	Counting Counting
	Newlines int // used with CountFixed
}

// ModeID indexes the modes of a Grammar.
type ModeID int

// Mode is one lexical context: a table plus the terminals of its patterns.
type Mode struct {
	Name      string
	Table     *Table
	Terminals map[PatternID]Terminal

	// Default runs when nothing matches in this mode. When nil, the scanner's
	// NoMatchPolicy applies.
	Default ActionFunc
}

// Grammar is an immutable set of modes. It may be shared by any number of
// scanners, including ones running on different goroutines.
type Grammar struct {
	modes  []*Mode
	byName map[string]ModeID
	entry  ModeID
	end    ActionFunc
	kinds  []Kind
	extra  []Kind
}

// GrammarOption configures a Grammar.
type GrammarOption func(*Grammar)

// WithEnd installs an action that runs once when the input is exhausted,
// before the End token is emitted.
func WithEnd(fn ActionFunc) GrammarOption {
	return func(g *Grammar) { g.end = fn }
}

// WithKinds declares kinds that only actions emit, so integrations that need
// the full symbol table (such as Definition) know about them.
func WithKinds(kinds ...Kind) GrammarOption {
	return func(g *Grammar) { g.extra = append(g.extra, kinds...) }
}

// NewGrammar validates the modes and returns a grammar starting in entry.
//
// Every table is validated, every pattern an accepting state reports must
// have a terminal, and every terminal must belong to a reachable pattern.
// These checks are the only place a malformed table is reported; scanning
// itself never fails on table content.
func NewGrammar(entry string, modes []*Mode, opts ...GrammarOption) (*Grammar, error) {
	if len(modes) == 0 {
		return nil, errors.New("lex: grammar has no modes")
	}
	g := &Grammar{
		modes:  make([]*Mode, 0, len(modes)),
		byName: make(map[string]ModeID, len(modes)),
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, m := range modes {
		if err := validateMode(m); err != nil {
			return nil, err
		}
		if _, dup := g.byName[m.Name]; dup {
			return nil, fmt.Errorf("lex: duplicate mode %q", m.Name)
		}
		frozen := *m
		frozen.Terminals = maps.Clone(m.Terminals)
		g.byName[m.Name] = ModeID(len(g.modes))
		g.modes = append(g.modes, &frozen)
	}

	id, ok := g.byName[entry]
	if !ok {
		return nil, fmt.Errorf("%w: entry %q", ErrUnknownMode, entry)
	}
	g.entry = id
	g.kinds = g.collectKinds()
	return g, nil
}

// MustGrammar is like NewGrammar but panics on error.
func MustGrammar(entry string, modes []*Mode, opts ...GrammarOption) *Grammar {
	g, err := NewGrammar(entry, modes, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

func validateMode(m *Mode) error {
	if m == nil {
		return errors.New("lex: nil mode")
	}
	if m.Name == "" {
		return errors.New("lex: mode without a name")
	}
	if m.Table == nil {
		return fmt.Errorf("lex: mode %q has no table", m.Name)
	}
	if err := m.Table.Validate(); err != nil {
		return fmt.Errorf("lex: mode %q: %w", m.Name, err)
	}

	accepted := make(map[PatternID]bool)
	for _, id := range m.Table.Patterns() {
		accepted[id] = true
		if _, ok := m.Terminals[id]; !ok {
			return fmt.Errorf("%w: mode %q pattern %d", ErrMissingTerminal, m.Name, id)
		}
	}
	for id, term := range m.Terminals {
		if !accepted[id] {
			return fmt.Errorf("lex: mode %q: terminal for pattern %d is never accepted", m.Name, id)
		}
		if term.Action == nil && !term.Skip && term.Kind == "" {
			return fmt.Errorf("lex: mode %q: terminal for pattern %d has no kind, action or skip", m.Name, id)
		}
		switch term.Counting {
		case CountScan, CountNone:
		case CountFixed:
			if term.Newlines < 0 {
				return fmt.Errorf("lex: mode %q: terminal for pattern %d has negative newline count", m.Name, id)
			}
		default:
			return fmt.Errorf("lex: mode %q: terminal for pattern %d has unknown counting %d", m.Name, id, term.Counting)
		}
	}
	return nil
}

// collectKinds lists the Unknown kind, then every terminal kind in mode and
// pattern order, then the declared extra kinds, without duplicates. Skipped
// terminals never emit, so their kind is left out.
func (g *Grammar) collectKinds() []Kind {
	seen := map[Kind]bool{KindEnd: true}
	kinds := []Kind{KindUnknown}
	seen[KindUnknown] = true
	add := func(k Kind) {
		if k != "" && !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	for _, m := range g.modes {
		for _, id := range m.Table.Patterns() {
			if term := m.Terminals[id]; term.Action != nil || !term.Skip {
				add(term.Kind)
			}
		}
	}
	for _, k := range g.extra {
		add(k)
	}
	return kinds
}

// Entry returns the mode scanning starts in.
func (g *Grammar) Entry() ModeID {
	return g.entry
}

// Lookup resolves a mode name.
func (g *Grammar) Lookup(name string) (ModeID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Mode returns the mode with the given id.
func (g *Grammar) Mode(id ModeID) *Mode {
	return g.modes[id]
}

// Modes returns the modes in declaration order.
func (g *Grammar) Modes() []*Mode {
	return append([]*Mode(nil), g.modes...)
}

// Kinds returns every kind the grammar can produce except KindEnd.
func (g *Grammar) Kinds() []Kind {
	return append([]Kind(nil), g.kinds...)
}
