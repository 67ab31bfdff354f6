package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/agenthands/squire/pkg/compiler/lexer"
	"github.com/agenthands/squire/pkg/config"
	"github.com/agenthands/squire/pkg/core/value"
	"github.com/agenthands/squire/pkg/vm"
)

const historyFile = ".squire_history"

func main() {
	expr := flag.String("e", "", "source text to tokenize")
	file := flag.String("f", "", "source file to tokenize")
	configPath := flag.String("config", "", "YAML configuration file")
	calcMode := flag.Bool("calc", false, "evaluate the input as an expression over literals")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	opts := cfg.LexerOptions()

	run := dump
	if *calcMode {
		m := cfg.NewMachine()
		run = func(w io.Writer, l *lexer.Lexer) int { return calculate(w, m, l) }
	}

	switch {
	case *expr != "":
		os.Exit(run(os.Stdout, lexer.NewString(*expr, opts...)))
	case *file != "":
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			os.Exit(1)
		}
		code := run(os.Stdout, lexer.New(lexer.NewStream(f), opts...))
		f.Close()
		os.Exit(code)
	default:
		repl(opts, run)
	}
}

// dump prints one token per line and returns the exit status.
func dump(w io.Writer, l *lexer.Lexer) int {
	for tok, err := range l.Tokens() {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", tok.Pos, tok.Kind, tok)
	}
	return 0
}

// calculate prints the value of the expression read from l.
func calculate(w io.Writer, m *vm.Machine, l *lexer.Lexer) int {
	toks, err := l.All()
	if err == nil {
		var v value.Value
		if v, err = evaluate(m, toks); err == nil {
			fmt.Fprintln(w, v)
			return 0
		}
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func repl(opts []lexer.Option, run func(io.Writer, *lexer.Lexer) int) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("lex> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		run(os.Stdout, lexer.NewString(line, opts...))
	}
}
