package lex

import "bytes"

// Counting selects how a terminal advances the line and column counters.
// All strategies give the same positions as long as the declaration is true
// for every lexeme the pattern can match; the cheaper ones skip the scan.
type Counting uint8

const (
	// CountScan scans the lexeme for newlines. It is always correct.
	CountScan Counting = iota
	// CountNone declares that the lexeme never contains a newline.
	CountNone
	// CountFixed declares that the lexeme contains exactly Terminal.Newlines newlines.
	CountFixed
)

func (c Counting) String() string {
	switch c {
	case CountScan:
		return "scan"
	case CountNone:
		return "none"
	case CountFixed:
		return "fixed"
	}
	return "Counting(?)"
}

// tracker carries the running position across lexemes. It depends only on
// the bytes consumed so far.
type tracker struct {
	pos Position
}

func newTracker() tracker {
	return tracker{pos: Position{Line: 1, Column: 1}}
}

func (tr *tracker) advance(lexeme []byte, c Counting, newlines int) {
	switch c {
	case CountNone:
		tr.pos.Column += len(lexeme)
	case CountFixed:
		tr.lines(lexeme, newlines)
	default:
		tr.lines(lexeme, bytes.Count(lexeme, []byte{'\n'}))
	}
	tr.pos.Offset += len(lexeme)
}

func (tr *tracker) lines(lexeme []byte, n int) {
	if n == 0 {
		tr.pos.Column += len(lexeme)
		return
	}
	tr.pos.Line += n
	tr.pos.Column = len(lexeme) - bytes.LastIndexByte(lexeme, '\n')
}
