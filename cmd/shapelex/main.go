// Command shapelex prints the tokens a grammar produces for its input.
//
//	shapelex [-grammar file.yaml] [-chunk n] [-queue n] [-skip-unknown] [file ...]
//
// Without -grammar the built-in demo grammar is used. Grammar documents may
// refer to the demo actions (openString, chunk, escape, closeString, finish).
// With no files, stdin is scanned; when stdin is a terminal an interactive
// prompt scans each entered line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/peterh/liner"

	"github.com/shapestone/shape-lex/internal/grammars/simple"
	"github.com/shapestone/shape-lex/pkg/lex"
)

const (
	historyFile = ".shapelex_history"
	prompt      = "lex> "
)

var (
	flagGrammar     = flag.String("grammar", "", "YAML grammar document (default: built-in demo grammar)")
	flagChunk       = flag.Uint("chunk", 0, "read at most n bytes per read (0: no limit)")
	flagQueue       = flag.Uint("queue", 0, "queue up to n tokens per batch (0: synchronous delivery)")
	flagSkipUnknown = flag.Bool("skip-unknown", false, "drop bytes no pattern matches instead of printing them")
	flagDebug       = flag.Bool("debug", false, "log reloads, mode switches and unmatched bytes to stderr")
)

func main() {
	flag.Parse()

	g, err := loadGrammar(*flagGrammar)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	opts, chunk, err := scannerOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	args := flag.Args()
	if len(args) == 0 {
		if isTerminal(os.Stdin) && liner.TerminalSupported() {
			os.Exit(repl(g, opts))
		}
		if err := process(os.Stdout, g, os.Stdin, chunk, opts); err != nil {
			fmt.Fprintf(os.Stderr, "stdin: %v\n", err)
			os.Exit(1)
		}
		return
	}

	exit := 0
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
			exit = 1
			continue
		}
		if err := process(os.Stdout, g, f, chunk, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exit = 1
		}
		f.Close()
	}
	os.Exit(exit)
}

func loadGrammar(path string) (*lex.Grammar, error) {
	if path == "" {
		return simple.Grammar(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := lex.ReadGrammar(f, simple.Actions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// scannerOptions turns the flags into scanner options and a read chunk size.
func scannerOptions() ([]lex.Option, int, error) {
	chunk, err := safecast.Conv[int](*flagChunk)
	if err != nil {
		return nil, 0, fmt.Errorf("-chunk: %w", err)
	}
	queue, err := safecast.Conv[int](*flagQueue)
	if err != nil {
		return nil, 0, fmt.Errorf("-queue: %w", err)
	}

	var opts []lex.Option
	if queue > 0 {
		opts = append(opts, lex.WithDelivery(lex.Queued, queue))
	}
	if *flagSkipUnknown {
		opts = append(opts, lex.WithNoMatch(lex.NoMatchSkip))
	}
	if *flagDebug {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, lex.WithLogger(slog.New(h)))
	}
	return opts, chunk, nil
}

// process scans r to the end and writes one line per token.
func process(w io.Writer, g *lex.Grammar, r io.Reader, chunk int, opts []lex.Option) error {
	if chunk > 0 {
		r = &chunkReader{r: r, n: chunk}
	}
	s := lex.New(g, r, opts...)
	for tok := range s.All() {
		if _, err := fmt.Fprintln(w, format(tok)); err != nil {
			return err
		}
	}
	return s.Err()
}

func format(tok lex.Token) string {
	return tok.Pos.String() + "\t" + string(tok.Kind) + "\t" + strconv.Quote(tok.Text)
}

// chunkReader limits every Read to n bytes, which exercises reloads.
type chunkReader struct {
	r io.Reader
	n int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.r.Read(p)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// history is the part of *liner.State that persists the prompt history.
type history interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

// loadHistory reads path into h. A missing file is not an error.
func loadHistory(h history, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = h.ReadHistory(f)
	return err
}

func saveHistory(h history, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := h.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// repl scans each entered line with a fresh scanner.
func repl(g *lex.Grammar, opts []lex.Option) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if err := loadHistory(ln, histPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history not loaded: %v\n", err)
	}
	defer func() {
		if err := saveHistory(ln, histPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history not saved: %v\n", err)
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		for tok := range lex.NewString(g, line, opts...).All() {
			fmt.Println(format(tok))
		}
	}
}
