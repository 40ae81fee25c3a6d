package lex

import (
	"io"
	"unicode/utf8"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// ShapeTokenizer exposes a Grammar through the shape-core tokenizer methods
// (Initialize, InitializeFromStream, NextToken), so Shape parsers can consume
// DFA-scanned tokens. NextToken reports false at end of input.
type ShapeTokenizer struct {
	g    *Grammar
	opts []Option
	s    *Scanner
}

// NewShapeTokenizer creates an uninitialized tokenizer for g.
func NewShapeTokenizer(g *Grammar, opts ...Option) *ShapeTokenizer {
	return &ShapeTokenizer{g: g, opts: opts}
}

// Initialize starts tokenizing input.
func (t *ShapeTokenizer) Initialize(input string) {
	t.s = NewString(t.g, input, t.opts...)
}

// InitializeFromStream starts tokenizing a shape-core stream.
func (t *ShapeTokenizer) InitializeFromStream(stream tokenizer.Stream) {
	t.s = NewFromSource(t.g, StreamSource(stream), t.opts...)
}

// NextToken returns the next token, or false once the input is exhausted.
func (t *ShapeTokenizer) NextToken() (*tokenizer.Token, bool) {
	if t.s == nil {
		return nil, false
	}
	tok := t.s.Next()
	if tok.Kind == KindEnd {
		return nil, false
	}
	return tokenizer.NewToken(string(tok.Kind), []rune(tok.Text)), true
}

// Scanner returns the scanner behind the tokenizer, or nil before Initialize.
func (t *ShapeTokenizer) Scanner() *Scanner {
	return t.s
}

// StreamSource reads a shape-core stream rune by rune and feeds the UTF-8
// encoding to the scanner.
func StreamSource(stream tokenizer.Stream) Source {
	return &streamSource{stream: stream}
}

type streamSource struct {
	stream  tokenizer.Stream
	pending []byte
	done    bool
}

func (s *streamSource) Fill(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) > 0 {
			k := copy(p[n:], s.pending)
			s.pending = s.pending[k:]
			n += k
			continue
		}
		if s.done {
			break
		}
		r, ok := s.stream.NextChar()
		if !ok {
			s.done = true
			break
		}
		s.pending = utf8.AppendRune(s.pending[:0], r)
	}
	if n == 0 && s.done {
		return 0, io.EOF
	}
	return n, nil
}
