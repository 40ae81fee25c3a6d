package lex_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/shapestone/shape-lex/pkg/lex"
)

// tagDoc scans words, and "<...>" tags in a second mode whose body is
// collected by actions.
const tagDoc = `
entry: text
end: finish
kinds: [Tag, Unclosed]
modes:
  - name: text
    states:
      - edges:
          - {char: " ", to: 2}
          - {char: "<", to: 3}
          - {lo: a, hi: z, to: 1}
      - accept: 0
        edges:
          - {lo: a, hi: z, to: 1}
      - accept: 1
        edges:
          - {char: " ", to: 2}
      - accept: 2
    default: {kind: Junk}
    terminals:
      - {pattern: 0, kind: Word, counting: none}
      - {pattern: 1, skip: true}
      - {pattern: 2, action: open, switch: tag, counting: fixed, newlines: 0}
  - name: tag
    states:
      - edges:
          - {char: ">", to: 2}
          - {lo: a, hi: z, to: 1}
      - accept: 0
        edges:
          - {lo: a, hi: z, to: 1}
      - accept: 1
    terminals:
      - {pattern: 0, action: collect}
      - {pattern: 1, action: close, switch: text}
`

func tagActions() map[string]lex.ActionFunc {
	return map[string]lex.ActionFunc{
		"open":    func(ctx *lex.Context) { ctx.Begin() },
		"collect": func(ctx *lex.Context) { ctx.Accumulate(ctx.Lexeme()) },
		"close":   func(ctx *lex.Context) { ctx.Flush("Tag") },
		"finish": func(ctx *lex.Context) {
			if ctx.Accumulating() {
				ctx.Flush("Unclosed")
			}
		},
	}
}

func TestLoadGrammar(t *testing.T) {
	g, err := lex.LoadGrammar([]byte(tagDoc), tagActions())
	if err != nil {
		t.Fatalf("LoadGrammar() error: %v", err)
	}

	tests := []struct {
		input string
		want  string
	}{
		{"ab <cd> e", `Word:ab Tag:cd Word:e End:`},
		{"<x", `Unclosed:x End:`},
		{"a1b", `Word:a Junk:1 Word:b End:`},
		{"<a1>", `Unknown:1 Tag:a End:`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var parts []string
			for _, tok := range lex.NewString(g, tt.input).Collect() {
				parts = append(parts, string(tok.Kind)+":"+tok.Text)
			}
			if got := strings.Join(parts, " "); got != tt.want {
				t.Errorf("tokens = %s, want %s", got, tt.want)
			}
		})
	}

	want := []lex.Kind{lex.KindUnknown, "Word", "Tag", "Unclosed"}
	if got := g.Kinds(); !sameKinds(got, want) {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
}

func TestLoadGrammar_EntryDefaultsToFirstMode(t *testing.T) {
	doc := strings.Replace(tagDoc, "entry: text\n", "", 1)
	g, err := lex.LoadGrammar([]byte(doc), tagActions())
	if err != nil {
		t.Fatalf("LoadGrammar() error: %v", err)
	}
	if name := g.Mode(g.Entry()).Name; name != "text" {
		t.Errorf("entry = %q, want text", name)
	}
}

func TestLoadGrammar_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		actions map[string]lex.ActionFunc
		wantErr error
		wantMsg string
	}{
		{
			name:    "malformed yaml",
			doc:     "modes: [",
			wantMsg: "lex:",
		},
		{
			name:    "missing action",
			doc:     tagDoc,
			actions: map[string]lex.ActionFunc{"open": func(*lex.Context) {}},
			wantMsg: `unknown action "collect"`,
		},
		{
			name:    "missing end action",
			doc:     tagDoc,
			actions: withoutAction("finish"),
			wantMsg: `unknown action "finish"`,
		},
		{
			name:    "unknown switch target",
			doc:     strings.Replace(tagDoc, "switch: tag", "switch: nowhere", 1),
			actions: tagActions(),
			wantErr: lex.ErrUnknownMode,
		},
		{
			name:    "unknown counting",
			doc:     strings.Replace(tagDoc, "counting: none", "counting: lines", 1),
			actions: tagActions(),
			wantMsg: `unknown counting "lines"`,
		},
		{
			name:    "duplicate terminal",
			doc:     strings.Replace(tagDoc, "{pattern: 1, skip: true}", "{pattern: 0, skip: true}", 1),
			actions: tagActions(),
			wantMsg: "duplicate terminal",
		},
		{
			name:    "empty terminal",
			doc:     strings.Replace(tagDoc, "{pattern: 1, skip: true}", "{pattern: 1}", 1),
			actions: tagActions(),
			wantMsg: "needs kind, skip, action or switch",
		},
		{
			name:    "accepting pattern without terminal",
			doc:     strings.Replace(tagDoc, "      - {pattern: 1, skip: true}\n", "", 1),
			actions: tagActions(),
			wantErr: lex.ErrMissingTerminal,
		},
		{
			name:    "unknown entry",
			doc:     strings.Replace(tagDoc, "entry: text", "entry: body", 1),
			actions: tagActions(),
			wantErr: lex.ErrUnknownMode,
		},
		{
			name:    "no modes",
			doc:     "entry: text\n",
			wantMsg: "no modes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lex.LoadGrammar([]byte(tt.doc), tt.actions)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func withoutAction(name string) map[string]lex.ActionFunc {
	actions := tagActions()
	delete(actions, name)
	return actions
}

func TestReadGrammar(t *testing.T) {
	g, err := lex.ReadGrammar(strings.NewReader(tagDoc), tagActions())
	if err != nil {
		t.Fatalf("ReadGrammar() error: %v", err)
	}
	if tok := lex.NewString(g, "hi").Next(); tok.Kind != "Word" {
		t.Errorf("first token = %s", tok)
	}

	boom := errors.New("boom")
	if _, err := lex.ReadGrammar(iotest.ErrReader(boom), nil); !errors.Is(err, boom) {
		t.Errorf("ReadGrammar(failing reader) error = %v, want boom", err)
	}
}
