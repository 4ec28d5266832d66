package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teleivo/merm/internal/document"
)

const (
	prompt             = "merm> "
	continuationPrompt = "  ... "
)

// lineReader reads the lines of an interactive session.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse diagrams interactively",
		Long: "Read diagrams line by line and print their model. An empty line ends a diagram. " +
			"Quit with ctrl-d, discard the current diagram with ctrl-c.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.NewEx(&readline.Config{
				Prompt: prompt,
				Stdin:  io.NopCloser(a.in),
				Stdout: a.out,
				Stderr: a.errOut,
			})
			if err != nil {
				return fmt.Errorf("error starting repl: %v", err)
			}
			defer func() { _ = rl.Close() }()

			if a.v.GetBool("no_color") {
				pterm.DisableStyling()
			}
			pterm.Info.WithWriter(a.out).Println("Enter a flowchart or pie diagram followed by an empty line. Quit with <ctrl>D.")
			return a.repl(rl)
		},
	}
}

// repl reads diagrams from lr until it is exhausted.
func (a *app) repl(lr lineReader) error {
	var lines []string
	for {
		line, err := lr.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			lines = lines[:0]
			lr.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(lines) > 0 {
				a.eval(strings.Join(lines, "\n"))
			}
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
			lr.SetPrompt(continuationPrompt)
			continue
		}
		if len(lines) > 0 {
			a.eval(strings.Join(lines, "\n"))
			lines = lines[:0]
		}
		lr.SetPrompt(prompt)
	}
}

// eval parses one diagram and prints its model or the error.
func (a *app) eval(src string) {
	doc, err := document.Parse("auto", src)
	if err != nil {
		if ferr := a.diag.Fprint(a.errOut, "repl", src, err); ferr != nil {
			a.logger.Error("failed to print error", "err", ferr)
		}
		return
	}
	if err := doc.WriteText(a.out); err != nil {
		a.logger.Error("failed to print diagram", "err", err)
	}
}
