// Package runner walks a mode's DFA over a buffer and reports the longest match.
//
// Run is the inner loop of the scanner. It consumes bytes while the table has
// an edge for them, remembers the most recent accepting state it passed
// through, and on drop-out rewinds the buffer to that acceptance. When the
// window runs dry it asks the buffer to reload and resumes from the same
// state, so chunk boundaries in the input never change the result.
package runner

import (
	"github.com/shapestone/shape-lex/internal/automaton"
	"github.com/shapestone/shape-lex/internal/buffer"
)

// Status tells the caller what Run found.
type Status uint8

const (
	// Matched means a pattern matched; the buffer's lexeme holds its text.
	Matched Status = iota
	// NoMatch means nothing matched; exactly one byte was consumed.
	NoMatch
	// End means the input is exhausted and nothing was consumed.
	End
)

func (s Status) String() string {
	switch s {
	case Matched:
		return "Matched"
	case NoMatch:
		return "NoMatch"
	case End:
		return "End"
	}
	return "Status(?)"
}

// Outcome is the result of one Run.
type Outcome struct {
	Status  Status
	Pattern automaton.PatternID
	// Reloads counts the buffer reloads performed during the run.
	Reloads int
	// Insufficient is set when a reload could not make room for the lexeme
	// and the run fell back to a shorter match or to one byte.
	Insufficient bool
}

// Session is the per-token scan state. All positions are buffer positions;
// negative means unset. A Session may be reused across runs and tables but
// must not be shared between buffers.
type Session struct {
	State automaton.StateID

	accepted  bool
	pattern   automaton.PatternID
	acceptPos int // end of the accepted lexeme
	acceptAt  int // scan position where the acceptance was seen
	post      []int

	positions []*int
}

// Reset prepares the session for a run over t.
func (s *Session) Reset(t *automaton.Table) {
	s.State = t.Initial
	s.accepted = false
	s.pattern = 0
	s.acceptPos = -1
	s.acceptAt = -1

	n := t.Slots()
	if cap(s.post) < n {
		s.post = make([]int, n)
	}
	s.post = s.post[:n]
	for i := range s.post {
		s.post[i] = -1
	}

	s.positions = append(s.positions[:0], &s.acceptPos, &s.acceptAt)
	for i := range s.post {
		s.positions = append(s.positions, &s.post[i])
	}
}

// LastAcceptance returns the pattern and lexeme end of the longest match seen
// so far in the current run.
func (s *Session) LastAcceptance() (automaton.PatternID, int, bool) {
	return s.pattern, s.acceptPos, s.accepted
}

// accept records an acceptance seen at scan position at. Only a strictly
// later scan position may replace an earlier acceptance.
func (s *Session) accept(id automaton.PatternID, end, at int) {
	if s.accepted && at <= s.acceptAt {
		return
	}
	s.accepted = true
	s.pattern = id
	s.acceptPos = end
	s.acceptAt = at
}

// Run scans one lexeme of t from b, starting at the buffer's input cursor.
func Run(t *automaton.Table, b *buffer.Buffer, s *Session) Outcome {
	s.Reset(t)
	b.MarkLexemeStart()

	var out Outcome
	state := t.Initial
	for {
		c, sig := b.Peek()
		switch sig {
		case buffer.Char:
			next, ok := t.Next(state, c)
			if !ok {
				return dropOut(b, s, out, false)
			}
			b.Advance()
			state = next
			s.State = next

			st := &t.States[next]
			pos := b.Pos()
			if st.Mark > 0 {
				s.post[st.Mark-1] = pos
			}
			if st.HasAccept {
				end := pos
				if st.Rewind > 0 {
					if p := s.post[st.Rewind-1]; p >= b.LexemeStart() {
						end = p
					}
				}
				s.accept(st.Accept, end, pos)
			}

		case buffer.AtLimit:
			out.Reloads++
			switch b.Reload(s.positions...) {
			case buffer.Ok:
				// Same state: the shift changed storage, not the scan.
			case buffer.Exhausted:
				return dropOut(b, s, out, true)
			case buffer.Insufficient:
				out.Insufficient = true
				return dropOut(b, s, out, false)
			}

		case buffer.AtEOF:
			return dropOut(b, s, out, true)
		}
	}
}

func dropOut(b *buffer.Buffer, s *Session, out Outcome, atEOF bool) Outcome {
	if s.accepted {
		b.SetPos(s.acceptPos)
		out.Status = Matched
		out.Pattern = s.pattern
		return out
	}
	start := b.LexemeStart()
	if atEOF && b.Pos() == start {
		out.Status = End
		return out
	}
	b.SetPos(start + 1)
	out.Status = NoMatch
	return out
}
