package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teleivo/merm/internal/diagnostic"
)

// app holds what the commands share. It is set up before any command runs.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	v      *viper.Viper
	logger *slog.Logger
	diag   *diagnostic.Printer
}

func newRootCmd(r io.Reader, w io.Writer, wErr io.Writer) *cobra.Command {
	a := &app{in: r, out: w, errOut: wErr, v: viper.New()}

	root := &cobra.Command{
		Use:   "merm",
		Short: "Work with flowchart and pie diagrams",
		Long: "merm parses diagrams written in the flowchart and pie dialects, reports errors " +
			"pointing at the offending source and shows the styles diagrams are drawn with.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(r)
	root.SetOut(w)
	root.SetErr(wErr)

	flags := root.PersistentFlags()
	flags.String("config", "", "read configuration from YAML `file`")
	flags.String("env-file", "", "load environment variables from `file` instead of .env")
	flags.Bool("debug", false, "log debug output to stderr")
	flags.String("trace", "error", "trace level of the lexer [debug|info|error]")
	flags.Bool("no-color", false, "disable colored output")
	for _, name := range []string{"config", "env-file", "debug", "trace", "no-color"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	root.AddCommand(
		a.parseCmd(),
		a.tokensCmd(),
		a.replCmd(),
		a.styleCmd(),
		a.lspCmd(),
		a.watchCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup() error {
	if err := a.loadEnv(); err != nil {
		return err
	}
	a.v.SetEnvPrefix("MERM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	level := slog.LevelInfo
	if a.v.GetBool("debug") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	traceLevel, err := parseTraceLevel(a.v.GetString("trace"))
	if err != nil {
		return err
	}
	tracing.Select("merm.lexer").SetTraceLevel(traceLevel)

	if file := a.v.GetString("config"); file != "" {
		a.v.SetConfigFile(file)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %q: %v", file, err)
		}
		a.logger.Debug("read config", "file", file)
	}

	a.diag = diagnostic.NewPrinter(!a.v.GetBool("no_color"))
	return nil
}

func parseTraceLevel(s string) (tracing.TraceLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return tracing.LevelDebug, nil
	case "info":
		return tracing.LevelInfo, nil
	case "error":
		return tracing.LevelError, nil
	}
	return tracing.LevelError, fmt.Errorf("invalid trace level %q: must be one of debug, info or error", s)
}

// loadEnv loads the env file given via --env-file. The file .env is loaded if it exists and no
// file was given.
func (a *app) loadEnv() error {
	file := a.v.GetString("env_file")
	if file != "" {
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %q: %v", file, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file \".env\": %v", err)
	}
	return nil
}

// input returns the source to work on and the name to report errors with. It reads stdin if no
// file or "-" is given.
func (a *app) input(args []string) (name, src string, err error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(a.in)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %v", err)
		}
		return "<stdin>", string(b), nil
	}

	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(b), nil
}
