package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teleivo/merm/internal/lexer"
	"github.com/teleivo/merm/token"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a diagram",
		Long: "Print the tokens of a diagram in either dialect one per line. Illegal input is " +
			"printed as ILLEGAL token and reported after all tokens.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := a.input(args)
			if err != nil {
				return err
			}
			l, err := lexer.New()
			if err != nil {
				return fmt.Errorf("error creating lexer: %v", err)
			}
			return a.tokens(l, name, src)
		},
	}
}

func (a *app) tokens(l *lexer.Lexer, name, src string) error {
	errs, err := writeTokens(a.out, l, src)
	if err != nil {
		return err
	}
	if len(errs) == 0 {
		return nil
	}

	for _, err := range errs {
		if ferr := a.diag.Fprint(a.errOut, name, src, err); ferr != nil {
			return ferr
		}
	}
	return errReported
}

// writeTokens writes a table of the tokens in src to w. It returns the errors of illegal tokens.
func writeTokens(w io.Writer, l *lexer.Lexer, src string) (errs []error, err error) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() {
		if ferr := tw.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("error flushing output: %v", ferr)
		}
	}()

	_, _ = fmt.Fprintf(tw, "POSITION\tTYPE\tVALUE\n")
	for tok, tokErr := range l.All(src) {
		if tokErr != nil {
			errs = append(errs, tokErr)
		}
		if tok.Kind == token.EOF {
			break
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", position(tok), tok.Kind, value(tok))
	}
	return errs, nil
}

func position(t token.Token) string {
	if t.Start == t.End {
		return t.Start.String()
	}
	return t.Start.String() + "-" + t.End.String()
}

func value(t token.Token) string {
	switch t.Kind {
	case token.Ident, token.String, token.Number, token.Text, token.Direction:
		return t.Literal
	case token.ILLEGAL:
		return strconv.Quote(t.Literal)
	}
	return t.Kind.String()
}
