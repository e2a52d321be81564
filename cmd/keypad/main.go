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

	"github.com/XJIeI5/keypad/internal/config"
	op "github.com/XJIeI5/keypad/internal/operation"
	"github.com/XJIeI5/keypad/internal/parser"
	"github.com/XJIeI5/keypad/internal/session"
)

const (
	promptMain = "keys> "
	helpText   = `type keys and press enter, e.g. "2+3*(4-1)=" or "3 s c ="
  digits . ( ) =   operand entry, brackets, evaluate
  CE AC DEL        clear operand, clear all, delete last digit
  keys             list operator keys
  quit             leave`
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("keypad: ")
	cfg, err := config.FromFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		log.Fatal(err)
	}

	s := session.New(reg)
	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			if err := run(os.Stdout, s, reg, arg); err != nil {
				log.Fatal(err)
			}
		}
		return
	}
	repl(s, reg, cfg.History)
}

// run presses every key on line and prints both display lines.
func run(w io.Writer, s *session.Session, reg *op.Registry, line string) error {
	keys, err := parser.ParseKeys(line, reg)
	if err != nil {
		return err
	}
	if err := s.PressAll(keys); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n= %s\n", s.Expression(), s.Operand())
	return nil
}

func listKeys(w io.Writer, reg *op.Registry) {
	for _, sym := range reg.Symbols() {
		fmt.Fprintf(w, "  %-8s %s\n", sym, reg.MustLookup(sym).Name())
	}
}

func completer(reg *op.Registry) liner.Completer {
	words := append(append([]string{"help", "keys", "quit"}, op.Commands...), reg.Symbols()...)
	return func(line string) []string {
		i := strings.LastIndexAny(line, " \t") + 1
		var res []string
		for _, w := range words {
			if len(line[i:]) > 0 && strings.HasPrefix(w, line[i:]) {
				res = append(res, line[:i]+w)
			}
		}
		return res
	}
}

func repl(s *session.Session, reg *op.Registry, historyFile string) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completer(reg))

	var histPath string
	if historyFile != "" {
		histPath = historyFile
		if home, err := os.UserHomeDir(); err == nil && !filepath.IsAbs(historyFile) {
			histPath = filepath.Join(home, historyFile)
		}
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Println(helpText)
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			log.Print(err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		switch line {
		case "quit", "exit":
			return
		case "help":
			fmt.Println(helpText)
			continue
		case "keys":
			listKeys(os.Stdout, reg)
			continue
		}
		if err := run(os.Stdout, s, reg, line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
