package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teleivo/merm/internal/version"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of merm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.out, "merm %s\n", version.Version())
			return err
		},
	}
}
