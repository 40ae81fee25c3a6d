package lex

// Delivery selects when Next hands tokens back to the caller. Both
// disciplines produce the same token sequence.
type Delivery uint8

const (
	// Synchronous returns as soon as one token is available.
	Synchronous Delivery = iota
	// Queued keeps scanning until QueueSize tokens are pending or the input
	// has ended, then returns them one by one.
	Queued
)

func (d Delivery) String() string {
	if d == Queued {
		return "queued"
	}
	return "synchronous"
}

// emitter is the FIFO between actions and the driver.
type emitter struct {
	queue []Token
	head  int
}

func (e *emitter) push(t Token) {
	e.queue = append(e.queue, t)
}

func (e *emitter) pop() (Token, bool) {
	if e.head == len(e.queue) {
		return Token{}, false
	}
	t := e.queue[e.head]
	e.queue[e.head] = Token{}
	e.head++
	if e.head == len(e.queue) {
		e.queue = e.queue[:0]
		e.head = 0
	}
	return t, true
}

func (e *emitter) len() int {
	return len(e.queue) - e.head
}
