package lex

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shapestone/shape-lex/internal/buffer"
	"github.com/shapestone/shape-lex/internal/runner"
)

// Source supplies input bytes. See NewFromSource.
type Source = buffer.Source

// Scanner turns one input into tokens using a Grammar.
//
// A Scanner owns its input window and scan state and is not safe for
// concurrent use. Scan independent inputs with independent scanners; they
// may share the Grammar.
type Scanner struct {
	id    string
	g     *Grammar
	opts  options
	log   *slog.Logger
	debug bool

	buf   *buffer.Buffer
	sess  runner.Session
	mode  ModeID
	track tracker
	out   emitter
	ctx   Context

	acc      []byte
	accStart Position
	accOn    bool

	ended  bool
	endTok Token
}

// New creates a scanner reading from r.
func New(g *Grammar, r io.Reader, opts ...Option) *Scanner {
	return NewFromSource(g, buffer.ReaderSource(r), opts...)
}

// NewString creates a scanner over an in-memory string.
func NewString(g *Grammar, input string, opts ...Option) *Scanner {
	return NewFromSource(g, buffer.BytesSource([]byte(input)), opts...)
}

// NewFromSource creates a scanner pulling bytes from src.
func NewFromSource(g *Grammar, src Source, opts ...Option) *Scanner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxBufferSize < o.bufferSize {
		o.maxBufferSize = o.bufferSize
	}

	s := &Scanner{
		id:    uuid.NewString(),
		g:     g,
		opts:  o,
		log:   o.logger,
		mode:  g.entry,
		track: newTracker(),
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	s.debug = s.log.Enabled(context.Background(), slog.LevelDebug)

	s.buf = buffer.New(src, buffer.WithSize(o.bufferSize), buffer.WithMaxSize(o.maxBufferSize))
	if s.debug {
		s.buf.OnReload = func(shift, size int) {
			s.log.Debug("reload",
				slog.String("session", s.id),
				slog.Int("shift", shift),
				slog.Int("window", size))
		}
	}
	return s
}

// ID returns the session identifier used in errors and log records.
func (s *Scanner) ID() string {
	return s.id
}

// Grammar returns the grammar the scanner runs.
func (s *Scanner) Grammar() *Grammar {
	return s.g
}

// Mode returns the name of the current mode.
func (s *Scanner) Mode() string {
	return s.g.modes[s.mode].Name
}

// Pos returns the position of the next unconsumed byte.
func (s *Scanner) Pos() Position {
	return s.track.pos
}

// Err returns the read error that ended the input early, if any. Lexical
// problems are never errors; they surface as tokens.
func (s *Scanner) Err() error {
	if err := s.buf.Err(); err != nil {
		return fmt.Errorf("lex: session %s: read: %w", s.id, err)
	}
	return nil
}

// Next returns the next token. Once the input is exhausted it returns the
// End token, and keeps returning the same End token on every later call.
func (s *Scanner) Next() Token {
	for !s.ended && (s.out.len() == 0 || (s.opts.delivery == Queued && s.out.len() < s.opts.queueSize)) {
		s.step()
	}
	if t, ok := s.out.pop(); ok {
		return t
	}
	return s.endTok
}

// All yields tokens up to and including End.
func (s *Scanner) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			t := s.Next()
			if !yield(t) || t.Kind == KindEnd {
				return
			}
		}
	}
}

// Collect scans the rest of the input and returns every token including End.
func (s *Scanner) Collect() []Token {
	var tokens []Token
	for t := range s.All() {
		tokens = append(tokens, t)
	}
	return tokens
}

// step runs the current mode's automaton once and dispatches the outcome.
func (s *Scanner) step() {
	m := s.g.modes[s.mode]
	out := runner.Run(m.Table, s.buf, &s.sess)
	if out.Insufficient && s.debug {
		s.log.Debug("lexeme exceeds window",
			slog.String("session", s.id),
			slog.String("mode", m.Name),
			slog.Int("window", s.buf.Size()))
	}

	switch out.Status {
	case runner.Matched:
		s.dispatch(m, m.Terminals[out.Pattern])
	case runner.NoMatch:
		s.dispatchDefault(m)
	case runner.End:
		s.finish()
	}
}

func (s *Scanner) switchTo(id ModeID) {
	if s.debug && id != s.mode {
		s.log.Debug("switch mode",
			slog.String("session", s.id),
			slog.String("from", s.g.modes[s.mode].Name),
			slog.String("to", s.g.modes[id].Name))
	}
	s.mode = id
}
