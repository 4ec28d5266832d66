package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teleivo/merm/internal/document"
)

func (a *app) parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a diagram and print its model",
		Long: "Parse a flowchart or pie diagram and print the parsed model. Errors are printed " +
			"together with the line they were found on.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, _ := cmd.Flags().GetString("dialect")
			format, _ := cmd.Flags().GetString("format")
			digest, _ := cmd.Flags().GetBool("digest")
			cpuProfile, _ := cmd.Flags().GetString("cpuprofile")
			memProfile, _ := cmd.Flags().GetString("memprofile")
			if !document.ValidDialect(dialect) {
				return fmt.Errorf("invalid dialect %q: must be one of auto, flowchart or pie", dialect)
			}
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q: must be one of text or json", format)
			}

			name, src, err := a.input(args)
			if err != nil {
				return err
			}
			return profile(func() error {
				doc, err := document.Parse(dialect, src)
				if err != nil {
					if ferr := a.diag.Fprint(a.errOut, name, src, err); ferr != nil {
						return ferr
					}
					return errReported
				}
				a.logger.Debug("parsed diagram", "file", name, "dialect", doc.Dialect)
				if digest {
					if err := doc.ComputeDigest(); err != nil {
						return err
					}
				}
				if format == "json" {
					return doc.WriteJSON(a.out)
				}
				return doc.WriteText(a.out)
			}, cpuProfile, memProfile)
		},
	}
	cmd.Flags().String("dialect", "auto", "dialect of the input [auto|flowchart|pie]")
	cmd.Flags().String("format", "text", "output format [text|json]")
	cmd.Flags().Bool("digest", false, "print a digest of the parsed model which ignores formatting and comments")
	cmd.Flags().String("cpuprofile", "", "write cpu profile to `file`")
	cmd.Flags().String("memprofile", "", "write memory profile to `file`")
	return cmd
}

