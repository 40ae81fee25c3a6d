package simple

import (
	_ "embed"
	"errors"
	"sync"

	"github.com/shapestone/shape-lex/pkg/lex"
)

// ErrUnterminatedString is the value of the Error token emitted when the
// input ends inside a string.
var ErrUnterminatedString = errors.New("unterminated string")

//go:embed simple.yaml
var document []byte

// Document returns the YAML source of the grammar.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Actions returns the actions the grammar document refers to by name.
func Actions() map[string]lex.ActionFunc {
	return map[string]lex.ActionFunc{
		"openString":  openString,
		"chunk":       chunk,
		"escape":      escape,
		"closeString": closeString,
		"finish":      finish,
	}
}

var grammar = sync.OnceValue(func() *lex.Grammar {
	g, err := lex.LoadGrammar(document, Actions())
	if err != nil {
		panic("simple: embedded grammar: " + err.Error())
	}
	return g
})

// Grammar returns the shared, immutable demo grammar.
func Grammar() *lex.Grammar {
	return grammar()
}

func openString(ctx *lex.Context) {
	ctx.Begin()
}

func chunk(ctx *lex.Context) {
	ctx.Accumulate(ctx.Lexeme())
}

// escape decodes a backslash pair. Unknown escapes are kept verbatim.
func escape(ctx *lex.Context) {
	b := ctx.Lexeme()[1]
	switch b {
	case 'n':
		ctx.AccumulateByte('\n')
	case 't':
		ctx.AccumulateByte('\t')
	case 'r':
		ctx.AccumulateByte('\r')
	case '"', '\\':
		ctx.AccumulateByte(b)
	default:
		ctx.Accumulate(ctx.Lexeme())
	}
}

func closeString(ctx *lex.Context) {
	ctx.FlushValue(TokenString, ctx.Accumulated())
}

// finish reports a string still open at end of input.
func finish(ctx *lex.Context) {
	if ctx.Mode() == ModeString {
		ctx.FlushValue(TokenError, ErrUnterminatedString)
	}
}
