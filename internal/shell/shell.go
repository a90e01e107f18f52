// Package shell runs an interactive prompt that dispatches each line to a
// command executor, so a database loaded once can answer many queries.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/peterh/liner"
)

// Prompt is the text shown before each input line.
const Prompt = "(neo) "

// LineReader reads one line of input after showing a prompt.
// *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type historyAppender interface {
	AppendHistory(item string)
}

// Executor runs one command line, already split into arguments.
type Executor func(args []string) error

// Shell is a read-eval loop over an Executor.
type Shell struct {
	reader LineReader
	out    io.Writer
	exec   Executor
	intro  string
	logger *slog.Logger
}

// New creates a Shell. intro is printed once when Run starts.
func New(reader LineReader, out io.Writer, exec Executor, intro string, logger *slog.Logger) *Shell {
	return &Shell{
		reader: reader,
		out:    out,
		exec:   exec,
		intro:  intro,
		logger: logger,
	}
}

// NewTerminal creates a Shell reading from the terminal with line editing
// and history. The returned close function restores the terminal.
func NewTerminal(out io.Writer, exec Executor, intro string, logger *slog.Logger) (*Shell, func() error) {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return New(state, out, exec, intro, logger), state.Close
}

// Run reads and executes lines until quit, exit, end of input or Ctrl-C.
// Command errors are reported and the loop continues.
func (s *Shell) Run() error {
	if s.intro != "" {
		fmt.Fprintln(s.out, s.intro)
	}

	for {
		line, err := s.reader.Prompt(Prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if h, ok := s.reader.(historyAppender); ok {
			h.AppendHistory(line)
		}

		args, err := shlex.Split(line, true)
		if err != nil {
			fmt.Fprintf(s.out, "Could not parse %q: %v\n", line, err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit", "q":
			return nil
		}

		if err := s.exec(args); err != nil {
			s.logger.Debug("shell command failed", "command", args[0], "error", err)
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}
