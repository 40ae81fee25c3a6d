package lex_test

import (
	"testing"

	"github.com/shapestone/shape-lex/internal/grammars/simple"
	"github.com/shapestone/shape-lex/pkg/lex"
)

// FuzzScanner checks that scanning never panics, always reaches End at the
// end of the input, and does not depend on how the input is chunked.
func FuzzScanner(f *testing.F) {
	f.Add("foo 123{bar}", uint8(1))
	f.Add(`{"a\"b\n" x}`, uint8(3))
	f.Add("\"unterminated", uint8(2))
	f.Add("\x00\xff\"\\", uint8(1))
	f.Add("a\n\n\r\nb", uint8(5))

	g := simple.Grammar()
	f.Fuzz(func(t *testing.T, data string, chunk uint8) {
		want := lex.NewString(g, data).Collect()
		got := lex.New(g, chunked(data, int(chunk%8)+1), lex.WithBufferSize(1)).Collect()

		if render(got) != render(want) {
			t.Fatalf("chunked scan differs:\n got %s\nwant %s", render(got), render(want))
		}
		end := want[len(want)-1]
		if !end.IsEnd() || end.Pos.Offset != len(data) {
			t.Fatalf("last token %s at offset %d, want End at %d", end, end.Pos.Offset, len(data))
		}
		for i := 1; i < len(want); i++ {
			if want[i].Pos.Offset < want[i-1].Pos.Offset {
				t.Fatalf("token %d starts before token %d", i, i-1)
			}
		}
	})
}
