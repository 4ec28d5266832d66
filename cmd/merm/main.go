// Command merm parses flowchart and pie diagrams, shows their tokens and styles and serves them to
// editors and browsers.
//
// Usage:
//
//	merm parse [flags] [file]
//	merm tokens [file]
//	merm repl
//	merm style [--dark]
//	merm lsp
//	merm watch [--port port] [--dialect dialect] file
//	merm version
//
// Input is read from stdin if no file is given. Configuration is read from the file given via
// --config and from environment variables prefixed with MERM_. A .env file in the working
// directory is loaded first if present.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// errReported is returned by commands that already printed their errors.
var errReported = errors.New("errors reported")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "merm: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, r io.Reader, w io.Writer, wErr io.Writer) error {
	cmd := newRootCmd(r, w, wErr)
	cmd.SetArgs(args)
	return cmd.Execute()
}
