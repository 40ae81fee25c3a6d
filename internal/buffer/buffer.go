// Package buffer implements the chunked character window the scanner runs over.
//
// A Buffer holds one contiguous byte slice and three cursors:
//
//	lexemeStart <= inputP <= textEnd <= cap
//
// Bytes before lexemeStart are no longer needed and are dropped when the
// buffer is compacted during Reload. Every position handed to Reload is
// rebased by the same delta, so saved marks stay valid across compaction.
//
// There is no reserved limit byte: Peek reports the limit as a separate
// Signal, which keeps all 256 byte values usable as input.
package buffer

import (
	"errors"
	"io"
)

const (
	// DefaultSize is the initial window size.
	DefaultSize = 4096

	// DefaultMaxSize bounds how far the window may grow for a single lexeme.
	DefaultMaxSize = 1 << 20

	maxConsecutiveEmptyReads = 100
)

// Signal classifies the result of Peek.
type Signal uint8

const (
	// Char means a byte is available at the input cursor.
	Char Signal = iota
	// AtLimit means the window is used up but the source may have more.
	AtLimit
	// AtEOF means the source is exhausted and every byte has been consumed.
	AtEOF
)

func (s Signal) String() string {
	switch s {
	case Char:
		return "Char"
	case AtLimit:
		return "AtLimit"
	case AtEOF:
		return "AtEOF"
	}
	return "Signal(?)"
}

// ReloadResult is the outcome of a Reload call. None of the values is a fault.
type ReloadResult uint8

const (
	// Ok means more bytes are available after the input cursor.
	Ok ReloadResult = iota
	// Exhausted means the source has no more bytes.
	Exhausted
	// Insufficient means the current lexeme already fills the maximum window,
	// so no more bytes can be pulled in for it.
	Insufficient
)

func (r ReloadResult) String() string {
	switch r {
	case Ok:
		return "Ok"
	case Exhausted:
		return "Exhausted"
	case Insufficient:
		return "Insufficient"
	}
	return "ReloadResult(?)"
}

// Buffer is the scanner's input window. It is not safe for concurrent use.
type Buffer struct {
	src Source
	err error
	eof bool

	data        []byte
	lexemeStart int
	inputP      int
	textEnd     int
	base        int // absolute offset of data[0]
	maxSize     int

	// OnReload, when set, is called after every compaction or growth with the
	// shift applied and the resulting window size.
	OnReload func(shift, size int)
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithSize sets the initial window size.
func WithSize(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.data = make([]byte, n)
		}
	}
}

// WithMaxSize sets the largest window a single lexeme may occupy.
func WithMaxSize(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxSize = n
		}
	}
}

// New creates a Buffer that pulls bytes from src on demand.
func New(src Source, opts ...Option) *Buffer {
	b := &Buffer{
		src:     src,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.data == nil {
		b.data = make([]byte, DefaultSize)
	}
	if b.maxSize < len(b.data) {
		b.maxSize = len(b.data)
	}
	return b
}

// MarkLexemeStart starts a new lexeme at the input cursor.
func (b *Buffer) MarkLexemeStart() {
	b.lexemeStart = b.inputP
}

// Peek returns the byte at the input cursor without consuming it.
func (b *Buffer) Peek() (byte, Signal) {
	if b.inputP < b.textEnd {
		return b.data[b.inputP], Char
	}
	if b.eof {
		return 0, AtEOF
	}
	return 0, AtLimit
}

// Advance consumes the byte returned by the last Peek.
func (b *Buffer) Advance() {
	b.inputP++
}

// Pos returns the input cursor.
func (b *Buffer) Pos() int {
	return b.inputP
}

// SetPos moves the input cursor to p, which must lie within the current lexeme
// window [LexemeStart, text end].
func (b *Buffer) SetPos(p int) {
	if p < b.lexemeStart || p > b.textEnd {
		panic("buffer: SetPos outside of the lexeme window")
	}
	b.inputP = p
}

// LexemeStart returns the lexeme start cursor.
func (b *Buffer) LexemeStart() int {
	return b.lexemeStart
}

// Lexeme returns the bytes between the lexeme start and the input cursor.
// The slice aliases the window and is only valid until the next Reload.
func (b *Buffer) Lexeme() []byte {
	return b.data[b.lexemeStart:b.inputP]
}

// Offset converts a window position into an absolute input offset.
func (b *Buffer) Offset(p int) int {
	return b.base + p
}

// Size returns the current window size.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Err returns the first non-EOF error reported by the source.
func (b *Buffer) Err() error {
	return b.err
}

// Reload pulls more bytes from the source. Bytes before the lexeme start are
// discarded first; the input cursor, the text end and every non-negative
// position passed in are shifted by the same amount. Negative positions are
// treated as unset and left alone.
func (b *Buffer) Reload(positions ...*int) ReloadResult {
	if b.eof {
		return Exhausted
	}

	shift := b.lexemeStart
	if shift > 0 {
		copy(b.data, b.data[shift:b.textEnd])
		b.lexemeStart -= shift
		b.inputP -= shift
		b.textEnd -= shift
		b.base += shift
		for _, p := range positions {
			if p != nil && *p >= 0 {
				*p -= shift
			}
		}
	}

	if b.textEnd == len(b.data) {
		if len(b.data) >= b.maxSize {
			return Insufficient
		}
		size := 2 * len(b.data)
		if size > b.maxSize {
			size = b.maxSize
		}
		grown := make([]byte, size)
		copy(grown, b.data[:b.textEnd])
		b.data = grown
	}

	if b.OnReload != nil {
		b.OnReload(shift, len(b.data))
	}

	for empty := 0; ; {
		n, err := b.src.Fill(b.data[b.textEnd:])
		if n < 0 || n > len(b.data)-b.textEnd {
			b.fail(errors.New("buffer: source returned an invalid count"))
			return Exhausted
		}
		b.textEnd += n
		if err != nil {
			if !errors.Is(err, io.EOF) {
				b.err = err
			}
			b.eof = true
		}
		if n > 0 {
			return Ok
		}
		if b.eof {
			return Exhausted
		}
		empty++
		if empty >= maxConsecutiveEmptyReads {
			b.fail(io.ErrNoProgress)
			return Exhausted
		}
	}
}

func (b *Buffer) fail(err error) {
	if b.err == nil {
		b.err = err
	}
	b.eof = true
}
