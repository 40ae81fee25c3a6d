package lex

import (
	"fmt"
	"strconv"
)

// Kind names a token type. Grammars define their own kinds; the two below
// are produced by the scanner itself.
type Kind string

const (
	KindEnd     Kind = "End"     // end of input, repeated on every later call
	KindUnknown Kind = "Unknown" // one byte no pattern matched (NoMatchEmit)
)

// Position is a location in the input. Line and Column are 1-based; Column
// counts bytes. Offset is the 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is one unit of scanner output.
type Token struct {
	Kind  Kind
	Text  string // lexeme, or the accumulated text for flushed tokens
	Value any    // decoded value set by the action, if any
	Pos   Position
	End   Position // position just past the token
	Mode  string   // mode the token was matched in
}

// IsEnd reports whether t marks the end of input.
func (t Token) IsEnd() bool {
	return t.Kind == KindEnd
}

func (t Token) String() string {
	if t.Kind == KindEnd {
		return fmt.Sprintf("%s %s", t.Pos, t.Kind)
	}
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Text)
}
