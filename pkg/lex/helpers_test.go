package lex_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/shapestone/shape-lex/pkg/lex"
)

const (
	kindIdent  lex.Kind = "Ident"
	kindNumber lex.Kind = "Number"
	kindLBrace lex.Kind = "LBrace"
	kindRBrace lex.Kind = "RBrace"
)

// basicMode scans [a-z]+, [0-9]+, braces and skips [ \t\r\n]+.
// The counting argument is used for every terminal that cannot contain a
// newline, so callers can compare strategies.
func basicMode(name string, counting lex.Counting) *lex.Mode {
	b := lex.NewTableBuilder(name)
	s0 := b.Initial()
	ident, number, space := b.State(), b.State(), b.State()
	b.Range(s0, 'a', 'z', ident).Range(ident, 'a', 'z', ident).Accept(ident, 0)
	b.Range(s0, '0', '9', number).Range(number, '0', '9', number).Accept(number, 1)
	b.Bytes(s0, " \t\r\n", space).Bytes(space, " \t\r\n", space).Accept(space, 2)
	b.Accept(b.Literal(s0, "{"), 3)
	b.Accept(b.Literal(s0, "}"), 4)

	fixed := func(kind lex.Kind) lex.Terminal {
		if counting == lex.CountFixed {
			return lex.Terminal{Kind: kind, Counting: lex.CountFixed, Newlines: 0}
		}
		return lex.Terminal{Kind: kind, Counting: counting}
	}
	return &lex.Mode{
		Name:  name,
		Table: b.MustBuild(),
		Terminals: map[lex.PatternID]lex.Terminal{
			0: fixed(kindIdent),
			1: fixed(kindNumber),
			2: {Skip: true},
			3: fixed(kindLBrace),
			4: fixed(kindRBrace),
		},
	}
}

func basicGrammar(t testing.TB, opts ...lex.GrammarOption) *lex.Grammar {
	t.Helper()
	g, err := lex.NewGrammar("main", []*lex.Mode{basicMode("main", lex.CountScan)}, opts...)
	if err != nil {
		t.Fatalf("NewGrammar() error: %v", err)
	}
	return g
}

// chunkReader returns at most n bytes per Read.
type chunkReader struct {
	data string
	n    int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	k := min(r.n, len(p), len(r.data))
	copy(p, r.data[:k])
	r.data = r.data[k:]
	return k, nil
}

func chunked(input string, n int) io.Reader {
	return &chunkReader{data: input, n: n}
}

// render formats tokens compactly for comparisons and failure messages.
func render(tokens []lex.Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 {
			sb.WriteString(" | ")
		}
		fmt.Fprintf(&sb, "%s@%d:%d-%d:%d:%q", t.Kind, t.Pos.Line, t.Pos.Column, t.End.Line, t.End.Column, t.Text)
	}
	return sb.String()
}

func kinds(tokens []lex.Token) []lex.Kind {
	out := make([]lex.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func sameKinds(a, b []lex.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
