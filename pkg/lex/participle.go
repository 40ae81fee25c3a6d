package lex

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2/lexer"
)

// Definition adapts a Grammar to participle's lexer.Definition, so a
// participle parser can run on top of the scanner:
//
//	parser := participle.MustBuild[File](participle.Lexer(lex.NewDefinition(g)))
//
// KindEnd maps to lexer.EOF. Other kinds get negative token types in the
// order Grammar.Kinds reports them. KindUnknown tokens are reported as
// lexer errors; use WithNoMatch(NoMatchSkip) to drop them instead.
type Definition struct {
	g       *Grammar
	opts    []Option
	symbols map[string]lexer.TokenType
	types   map[Kind]lexer.TokenType
}

// NewDefinition creates a participle lexer definition. Every lexer it
// creates is a fresh Scanner configured with opts.
func NewDefinition(g *Grammar, opts ...Option) *Definition {
	d := &Definition{
		g:       g,
		opts:    opts,
		symbols: map[string]lexer.TokenType{"EOF": lexer.EOF},
		types:   map[Kind]lexer.TokenType{KindEnd: lexer.EOF},
	}
	next := lexer.EOF - 1
	for _, k := range g.Kinds() {
		d.symbols[string(k)] = next
		d.types[k] = next
		next--
	}
	return d
}

// Symbols implements lexer.Definition.
func (d *Definition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex implements lexer.Definition.
func (d *Definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	return &participleLexer{
		def:      d,
		filename: filename,
		s:        New(d.g, r, d.opts...),
	}, nil
}

type participleLexer struct {
	def      *Definition
	filename string
	s        *Scanner
}

// Next implements lexer.Lexer.
func (l *participleLexer) Next() (lexer.Token, error) {
	tok := l.s.Next()
	pos := lexer.Position{
		Filename: l.filename,
		Offset:   tok.Pos.Offset,
		Line:     tok.Pos.Line,
		Column:   tok.Pos.Column,
	}

	switch tok.Kind {
	case KindEnd:
		if err := l.s.Err(); err != nil {
			return lexer.Token{}, err
		}
		return lexer.Token{Type: lexer.EOF, Pos: pos}, nil
	case KindUnknown:
		return lexer.Token{}, &lexer.Error{Msg: fmt.Sprintf("invalid input text %q", tok.Text), Pos: pos}
	}

	typ, ok := l.def.types[tok.Kind]
	if !ok {
		return lexer.Token{}, &lexer.Error{Msg: fmt.Sprintf("token kind %q is not declared by the grammar", tok.Kind), Pos: pos}
	}
	return lexer.Token{Type: typ, Value: tok.Text, Pos: pos}, nil
}
