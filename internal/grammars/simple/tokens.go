// Package simple is the demo grammar: identifiers, numbers, braces and
// double-quoted strings with escapes.
package simple

import "github.com/shapestone/shape-lex/pkg/lex"

// Token kinds produced by the grammar.
const (
	// Program mode
	TokenIdent  lex.Kind = "Ident"  // [a-z]+
	TokenNumber lex.Kind = "Number" // [0-9]+
	TokenLBrace lex.Kind = "LBrace" // {
	TokenRBrace lex.Kind = "RBrace" // }

	// Emitted by actions
	TokenString lex.Kind = "String" // "..." with escapes decoded
	TokenError  lex.Kind = "Error"  // unterminated string
)

// Mode names.
const (
	ModeProgram = "program"
	ModeString  = "string"
)
