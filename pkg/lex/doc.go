// Package lex is a table-driven, maximal-munch scanner runtime.
//
// A Grammar is a set of modes. Each mode owns a DFA (a Table of byte range
// edges) and maps the patterns its accepting states report to Terminals. The
// Scanner runs the current mode's DFA over a chunked input window, always
// takes the longest match, and hands the lexeme to the matching terminal,
// which may emit tokens, accumulate text across lexemes, switch modes, or
// emit nothing and let scanning continue.
//
// Tables are data. They are produced offline, written with NewTableBuilder,
// or loaded from YAML with LoadGrammar; the runtime never compiles patterns.
//
// # Longest match
//
// While walking the DFA the scanner remembers the last accepting state it
// passed. When no edge leaves the current state it rewinds to that point, so
// "ab" is one token even if "a" is a pattern too. Two patterns that accept in
// the same state are resolved when the table is built: the first-declared
// pattern wins.
//
// # Chunked input
//
// Input is pulled through a Source into a window that is compacted and, for
// long lexemes, grown as needed. Reloads are invisible in the output: any
// split of the same input into chunks produces the same tokens. A lexeme
// that outgrows WithMaxBufferSize falls back to the longest match that fits.
//
// # Modes
//
// Only actions change modes, through Context.SwitchTo. The switch applies to
// the next lexeme. There is no implicit mode stack; grammars that need one
// keep it in the value passed with WithUser.
//
// # Errors
//
// Scanning never fails on input. Bytes no pattern matches are consumed one at
// a time and either emitted as KindUnknown tokens or dropped (WithNoMatch).
// Malformed tables are rejected by NewGrammar. Read errors from the Source
// end the input and are reported by Scanner.Err.
//
// # Thread Safety
//
// A Grammar and its tables are read-only and may be shared by any number of
// scanners. A Scanner must only be used by one goroutine at a time.
//
//	// SAFE: one grammar, independent scanners
//	go func() { lex.NewString(g, input1).Collect() }()
//	go func() { lex.NewString(g, input2).Collect() }()
//
// # Example
//
//	g, err := lex.LoadGrammar(doc, nil)
//	if err != nil {
//	    // handle error
//	}
//	s := lex.New(g, file)
//	for tok := range s.All() {
//	    fmt.Println(tok)
//	}
//	if err := s.Err(); err != nil {
//	    // handle read error
//	}
package lex
