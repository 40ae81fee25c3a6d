package lex

import "testing"

func TestTracker_Advance(t *testing.T) {
	tests := []struct {
		name     string
		lexemes  []string
		counting Counting
		newlines int
		want     Position
	}{
		{"no newline", []string{"abc"}, CountScan, 0, Position{Offset: 3, Line: 1, Column: 4}},
		{"trailing newline", []string{"ab\n"}, CountScan, 0, Position{Offset: 3, Line: 2, Column: 1}},
		{"crlf", []string{"a\r\n", "b"}, CountScan, 0, Position{Offset: 4, Line: 2, Column: 2}},
		{"several lexemes", []string{"a\nb", "\n\ncd"}, CountScan, 0, Position{Offset: 7, Line: 4, Column: 3}},
		{"none", []string{"abc", "de"}, CountNone, 0, Position{Offset: 5, Line: 1, Column: 6}},
		{"fixed", []string{"\n  x\n y"}, CountFixed, 2, Position{Offset: 7, Line: 3, Column: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker()
			for _, lx := range tt.lexemes {
				tr.advance([]byte(lx), tt.counting, tt.newlines)
			}
			if tr.pos != tt.want {
				t.Errorf("pos = %+v, want %+v", tr.pos, tt.want)
			}
		})
	}
}

func TestEmitter_FIFO(t *testing.T) {
	var e emitter
	if _, ok := e.pop(); ok {
		t.Fatal("pop on empty emitter succeeded")
	}
	e.push(Token{Text: "a"})
	e.push(Token{Text: "b"})
	if got, _ := e.pop(); got.Text != "a" {
		t.Errorf("first pop = %q, want a", got.Text)
	}
	e.push(Token{Text: "c"})
	if e.len() != 2 {
		t.Errorf("len = %d, want 2", e.len())
	}
	for _, want := range []string{"b", "c"} {
		if got, ok := e.pop(); !ok || got.Text != want {
			t.Errorf("pop = %q, %v, want %q", got.Text, ok, want)
		}
	}
	if e.len() != 0 {
		t.Errorf("len = %d after draining", e.len())
	}
}

func TestEnumStrings(t *testing.T) {
	cases := map[string]string{
		CountScan.String():   "scan",
		CountNone.String():   "none",
		CountFixed.String():  "fixed",
		Synchronous.String(): "synchronous",
		Queued.String():      "queued",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
	if s := (Token{Kind: "Ident", Text: "x", Pos: Position{Line: 2, Column: 3}}).String(); s != `2:3 Ident "x"` {
		t.Errorf("Token.String() = %s", s)
	}
}
