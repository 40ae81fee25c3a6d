package lex

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-lex/internal/automaton"
)

// grammarDoc is the part of a grammar document the automaton package does
// not read. Tables come from the same document's modes[].states.
type grammarDoc struct {
	Entry string    `yaml:"entry"`
	End   string    `yaml:"end"`
	Kinds []string  `yaml:"kinds"`
	Modes []modeDoc `yaml:"modes"`
}

type modeDoc struct {
	Name      string        `yaml:"name"`
	Terminals []terminalDoc `yaml:"terminals"`
	Default   *terminalDoc  `yaml:"default"`
}

type terminalDoc struct {
	Pattern  int    `yaml:"pattern"`
	Kind     string `yaml:"kind"`
	Skip     bool   `yaml:"skip"`
	Action   string `yaml:"action"`
	Switch   string `yaml:"switch"`
	Counting string `yaml:"counting"`
	Newlines int    `yaml:"newlines"`
}

// LoadGrammar builds a Grammar from a YAML document. The document holds the
// tables (see automaton.Document) and, per mode, the terminals:
//
//	entry: program
//	end: finish            # optional action run at end of input
//	kinds: [String]        # kinds only actions emit
//	modes:
//	  - name: program
//	    states: [...]
//	    default: {skip: true}
//	    terminals:
//	      - {pattern: 0, kind: Ident, counting: none}
//	      - {pattern: 1, skip: true}
//	      - {pattern: 2, action: openString, switch: string}
//
// A terminal either emits kind, is skipped, or runs the named action from
// actions. A switch target is applied after the terminal's own work.
// Counting is one of scan (default), none or fixed (with newlines).
// The entry mode defaults to the first mode.
func LoadGrammar(data []byte, actions map[string]ActionFunc) (*Grammar, error) {
	tables, err := automaton.LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	var doc grammarDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	names := make(map[string]bool, len(doc.Modes))
	for _, md := range doc.Modes {
		names[md.Name] = true
	}
	lookup := func(name string) (ActionFunc, error) {
		fn, ok := actions[name]
		if !ok || fn == nil {
			return nil, fmt.Errorf("lex: unknown action %q", name)
		}
		return fn, nil
	}

	modes := make([]*Mode, len(doc.Modes))
	for i, md := range doc.Modes {
		m := &Mode{
			Name:      md.Name,
			Table:     tables[i],
			Terminals: make(map[PatternID]Terminal, len(md.Terminals)),
		}
		for _, td := range md.Terminals {
			id := PatternID(td.Pattern)
			if _, dup := m.Terminals[id]; dup {
				return nil, fmt.Errorf("lex: mode %q: duplicate terminal for pattern %d", md.Name, td.Pattern)
			}
			term, err := td.terminal(names, lookup)
			if err != nil {
				return nil, fmt.Errorf("lex: mode %q pattern %d: %w", md.Name, td.Pattern, err)
			}
			m.Terminals[id] = term
		}
		if md.Default != nil {
			term, err := md.Default.terminal(names, lookup)
			if err != nil {
				return nil, fmt.Errorf("lex: mode %q default: %w", md.Name, err)
			}
			m.Default = term.asAction()
		}
		modes[i] = m
	}

	var opts []GrammarOption
	for _, k := range doc.Kinds {
		opts = append(opts, WithKinds(Kind(k)))
	}
	if doc.End != "" {
		fn, err := lookup(doc.End)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithEnd(fn))
	}

	entry := doc.Entry
	if entry == "" && len(doc.Modes) > 0 {
		entry = doc.Modes[0].Name
	}
	return NewGrammar(entry, modes, opts...)
}

// ReadGrammar is like LoadGrammar but reads the document from r.
func ReadGrammar(r io.Reader, actions map[string]ActionFunc) (*Grammar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	return LoadGrammar(data, actions)
}

func (td terminalDoc) terminal(modes map[string]bool, lookup func(string) (ActionFunc, error)) (Terminal, error) {
	term := Terminal{Kind: Kind(td.Kind), Skip: td.Skip, Newlines: td.Newlines}

	switch td.Counting {
	case "", "scan":
		term.Counting = CountScan
	case "none":
		term.Counting = CountNone
	case "fixed":
		term.Counting = CountFixed
	default:
		return term, fmt.Errorf("unknown counting %q", td.Counting)
	}

	if td.Action != "" {
		fn, err := lookup(td.Action)
		if err != nil {
			return term, err
		}
		term.Action = fn
	}

	if td.Switch != "" {
		if !modes[td.Switch] {
			return term, fmt.Errorf("%w: switch target %q", ErrUnknownMode, td.Switch)
		}
		body := term.asAction()
		target := td.Switch
		term.Action = func(ctx *Context) {
			body(ctx)
			// The target was checked against the document's modes above.
			_ = ctx.SwitchTo(target)
		}
	}

	if term.Action == nil && !term.Skip && term.Kind == "" {
		return term, errors.New("terminal needs kind, skip, action or switch")
	}
	return term, nil
}

// asAction expresses the terminal's behavior as a single action.
func (t Terminal) asAction() ActionFunc {
	switch {
	case t.Action != nil:
		return t.Action
	case t.Skip || t.Kind == "":
		return func(*Context) {}
	default:
		kind := t.Kind
		return func(ctx *Context) { ctx.Emit(kind) }
	}
}
