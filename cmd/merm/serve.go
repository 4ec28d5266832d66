package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teleivo/merm/lsp"
	"github.com/teleivo/merm/watch"
)

func (a *app) lspCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdin and stdout",
		Long: "lsp runs a language server for flowchart and pie diagrams. It publishes parse " +
			"errors as diagnostics and shows information about nodes and pie slices on hover. " +
			"Logs are written to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := lsp.New(lsp.Config{
				Debug: a.v.GetBool("debug"),
				In:    a.in,
				Out:   a.out,
				Log:   a.errOut,
			})
			if err != nil {
				return err
			}
			return srv.Start(ctx)
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch file",
		Short: "Serve the model of a diagram and refresh it on change",
		Long: "watch serves the parsed model of file on localhost. The page refreshes whenever " +
			"the file changes and shows parse errors instead of the model.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			wa, err := watch.New(watch.Config{
				File:    args[0],
				Dialect: a.v.GetString("watch.dialect"),
				Port:    a.v.GetString("watch.port"),
				Debug:   a.v.GetBool("debug"),
				Stdout:  a.out,
				Stderr:  a.errOut,
			})
			if err != nil {
				return err
			}
			return wa.Watch(ctx)
		},
	}
	cmd.Flags().String("port", "8080", "port to serve on, 0 picks a free one")
	cmd.Flags().String("dialect", "auto", "dialect of the diagram [auto|flowchart|pie]")
	_ = a.v.BindPFlag("watch.port", cmd.Flags().Lookup("port"))
	_ = a.v.BindPFlag("watch.dialect", cmd.Flags().Lookup("dialect"))
	return cmd
}
