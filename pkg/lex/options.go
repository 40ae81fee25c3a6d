package lex

import (
	"log/slog"

	"github.com/shapestone/shape-lex/internal/buffer"
)

// NoMatchPolicy decides what the default handler does with a byte no pattern
// of the current mode matches, when the mode has no Default action.
type NoMatchPolicy uint8

const (
	// NoMatchEmit emits the byte as a KindUnknown token.
	NoMatchEmit NoMatchPolicy = iota
	// NoMatchSkip drops the byte and continues.
	NoMatchSkip
)

// DefaultQueueSize is the batch size used by WithDelivery(Queued, 0).
const DefaultQueueSize = 64

type options struct {
	bufferSize    int
	maxBufferSize int
	delivery      Delivery
	queueSize     int
	noMatch       NoMatchPolicy
	logger        *slog.Logger
	user          any
}

func defaultOptions() options {
	return options{
		bufferSize:    buffer.DefaultSize,
		maxBufferSize: buffer.DefaultMaxSize,
		delivery:      Synchronous,
		queueSize:     DefaultQueueSize,
		noMatch:       NoMatchEmit,
	}
}

// Option configures a Scanner.
type Option func(*options)

// WithBufferSize sets the initial input window size in bytes.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithMaxBufferSize bounds the window a single lexeme may need. A lexeme that
// would grow past it is cut at the longest match that fits.
func WithMaxBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBufferSize = n
		}
	}
}

// WithDelivery selects the delivery discipline. For Queued, size is the batch
// size; zero selects DefaultQueueSize.
func WithDelivery(d Delivery, size int) Option {
	return func(o *options) {
		o.delivery = d
		if size > 0 {
			o.queueSize = size
		}
	}
}

// WithNoMatch sets the policy for bytes no pattern matches.
func WithNoMatch(p NoMatchPolicy) Option {
	return func(o *options) { o.noMatch = p }
}

// WithLogger installs a logger for debug records about reloads, mode
// switches and no-match recovery. Scanners are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithUser attaches a value actions can reach through Context.User, such as
// a mode stack kept by the grammar.
func WithUser(v any) Option {
	return func(o *options) { o.user = v }
}
