package lex

import (
	"fmt"
	"log/slog"
)

// Context is handed to actions. It is owned by the scanner and only valid
// for the duration of the action call.
type Context struct {
	s      *Scanner
	lexeme []byte
	pos    Position
	end    Position
	mode   string
}

// Lexeme returns the matched bytes. The slice aliases the input window.
func (c *Context) Lexeme() []byte {
	return c.lexeme
}

// Text returns the matched bytes as a string.
func (c *Context) Text() string {
	return string(c.lexeme)
}

// Pos returns the position of the first byte of the lexeme.
func (c *Context) Pos() Position {
	return c.pos
}

// End returns the position just past the lexeme.
func (c *Context) End() Position {
	return c.end
}

// Mode returns the name of the mode the lexeme was matched in.
func (c *Context) Mode() string {
	return c.mode
}

// User returns the value installed with WithUser.
func (c *Context) User() any {
	return c.s.opts.user
}

// Emit queues a token of kind carrying the lexeme text.
func (c *Context) Emit(kind Kind) {
	c.EmitValue(kind, c.Text(), nil)
}

// EmitValue queues a token with explicit text and decoded value.
func (c *Context) EmitValue(kind Kind, text string, value any) {
	c.s.out.push(Token{
		Kind:  kind,
		Text:  text,
		Value: value,
		Pos:   c.pos,
		End:   c.end,
		Mode:  c.mode,
	})
}

// Begin starts an accumulated token at this lexeme, even if nothing has been
// accumulated yet. Calling Begin while accumulating has no effect.
func (c *Context) Begin() {
	if !c.s.accOn {
		c.s.accOn = true
		c.s.accStart = c.pos
		c.s.acc = c.s.acc[:0]
	}
}

// Accumulate appends p to the pending token text.
func (c *Context) Accumulate(p []byte) {
	c.Begin()
	c.s.acc = append(c.s.acc, p...)
}

// AccumulateString appends s to the pending token text.
func (c *Context) AccumulateString(s string) {
	c.Begin()
	c.s.acc = append(c.s.acc, s...)
}

// AccumulateByte appends b to the pending token text.
func (c *Context) AccumulateByte(b byte) {
	c.Begin()
	c.s.acc = append(c.s.acc, b)
}

// Accumulating reports whether a token is being accumulated.
func (c *Context) Accumulating() bool {
	return c.s.accOn
}

// Accumulated returns the pending token text.
func (c *Context) Accumulated() string {
	return string(c.s.acc)
}

// Flush emits the accumulated text as a token of kind that spans from the
// lexeme that began the accumulation to the end of the current lexeme.
func (c *Context) Flush(kind Kind) {
	c.FlushValue(kind, nil)
}

// FlushValue is like Flush but attaches a decoded value to the token.
func (c *Context) FlushValue(kind Kind, value any) {
	start := c.pos
	if c.s.accOn {
		start = c.s.accStart
	}
	text := string(c.s.acc)
	c.s.out.push(Token{
		Kind:  kind,
		Text:  text,
		Value: value,
		Pos:   start,
		End:   c.end,
		Mode:  c.mode,
	})
	c.s.acc = c.s.acc[:0]
	c.s.accOn = false
}

// SwitchTo makes the named mode current. The switch applies from the next
// lexeme on; the input cursor is not touched. An unknown name leaves the
// mode unchanged and returns ErrUnknownMode.
func (c *Context) SwitchTo(name string) error {
	id, ok := c.s.g.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	c.s.switchTo(id)
	return nil
}

// dispatch runs the terminal for the lexeme the runner just matched.
func (s *Scanner) dispatch(m *Mode, term Terminal) {
	s.enter(m, term.Counting, term.Newlines)
	switch {
	case term.Action != nil:
		term.Action(&s.ctx)
	case term.Skip:
	default:
		s.ctx.Emit(term.Kind)
	}
	s.leave()
}

// dispatchDefault handles a single unmatched byte.
func (s *Scanner) dispatchDefault(m *Mode) {
	s.enter(m, CountScan, 0)
	if s.debug {
		s.log.Debug("no match",
			slog.String("session", s.id),
			slog.String("mode", m.Name),
			slog.String("pos", s.ctx.pos.String()),
			slog.String("byte", fmt.Sprintf("%q", s.ctx.lexeme)))
	}
	switch {
	case m.Default != nil:
		m.Default(&s.ctx)
	case s.opts.noMatch == NoMatchEmit:
		s.ctx.Emit(KindUnknown)
	}
	s.leave()
}

// finish runs the end handler and emits the End token. It runs at most once.
func (s *Scanner) finish() {
	if s.ended {
		return
	}
	m := s.g.modes[s.mode]
	s.ctx = Context{s: s, pos: s.track.pos, end: s.track.pos, mode: m.Name}
	if s.g.end != nil {
		s.g.end(&s.ctx)
	}
	s.endTok = Token{Kind: KindEnd, Pos: s.track.pos, End: s.track.pos, Mode: m.Name}
	s.out.push(s.endTok)
	s.ctx = Context{}
	s.ended = true
}

// enter advances the position counters over the current lexeme and prepares
// the action context.
func (s *Scanner) enter(m *Mode, c Counting, newlines int) {
	lexeme := s.buf.Lexeme()
	start := s.track.pos
	s.track.advance(lexeme, c, newlines)
	s.ctx = Context{s: s, lexeme: lexeme, pos: start, end: s.track.pos, mode: m.Name}
}

func (s *Scanner) leave() {
	s.ctx = Context{}
}
