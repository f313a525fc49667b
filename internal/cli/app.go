// Package cli implements the nanobanana command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mhpenta/nanobanana"
	"github.com/mhpenta/nanobanana/internal/inject"
	"github.com/mhpenta/nanobanana/internal/log"
	"github.com/mhpenta/nanobanana/provider/gemini"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

// Environment variables read by the CLI.
const (
	EnvAPIKey   = "GEMINI_API_KEY"
	EnvModel    = "NANOBANANA_MODEL"
	EnvLogLevel = "NANOBANANA_LOG_LEVEL"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// annotationAPIKey marks commands that need a credential before running.
const annotationAPIKey = "requires-api-key"

var errMissingAPIKey = errors.New(EnvAPIKey + " environment variable not set")

// App holds the process environment the commands run against.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Setup builds the dependency graph once the credential is known.
	Setup func(ctx context.Context, cfg inject.Config) *do.Injector
}

// New returns an App bound to the real process environment.
func New() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Setup:  inject.Setup,
	}
}

// usageError is a command-line mistake; it exits with ExitUsage.
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// noImageError carries why a response had no image.
type noImageError struct {
	finishReason string
	blockReason  string
}

func (e *noImageError) Error() string {
	return nanobanana.ErrNoImageGenerated.Error() + e.reason()
}

func (e *noImageError) reason() string {
	switch {
	case e.blockReason != "":
		return " (blocked: " + e.blockReason + ")"
	case e.finishReason != "":
		return " (finish reason: " + e.finishReason + ")"
	default:
		return ""
	}
}

func (e *noImageError) Unwrap() error { return nanobanana.ErrNoImageGenerated }

// runState is created per Execute call.
type runState struct {
	app      *App
	injector *do.Injector

	model     string
	logLevel  string
	logFormat string
}

// Execute runs the command line in args (without the program name) and
// returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	state := &runState{app: a}
	root := state.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	err := root.ExecuteContext(ctx)
	if state.injector != nil {
		_ = state.injector.Shutdown()
	}
	if err == nil {
		return ExitOK
	}

	var uerr *usageError
	var nerr *noImageError
	switch {
	case errors.As(err, &uerr):
		fmt.Fprintf(a.Stderr, "Error: %v\n", uerr.err)
		if uerr.cmd != nil {
			fmt.Fprintf(a.Stderr, "Run '%s --help' for usage.\n", uerr.cmd.CommandPath())
		}
		return ExitUsage
	case errors.As(err, &nerr):
		fmt.Fprintf(a.Stderr, "Warning: No image was generated in the response%s\n", nerr.reason())
		return ExitFailure
	default:
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
}

func (s *runState) getenv(key, fallback string) string {
	if v := s.app.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *runState) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "nanobanana",
		Short: "Generate and edit images with Gemini",
		Long: `Create, edit and compose images from text prompts with the Gemini image
models, or iterate on an image in an interactive chat.

The API key is read from ` + EnvAPIKey + `.`,
		Args:              usageArgs(cobra.NoArgs),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: s.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{cmd: cmd, err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&s.model, "model", "m", s.getenv(EnvModel, gemini.APIModelNanoBanana2), "Model to use")
	flags.StringVar(&s.logLevel, "log-level", s.getenv(EnvLogLevel, "warn"), "Log level (debug, info, warn, error)")
	flags.StringVar(&s.logFormat, "log-format", log.FormatText, "Log format (text, json)")

	root.AddCommand(
		s.generateCommand(),
		s.editCommand(),
		s.composeCommand(),
		s.searchCommand(),
		s.chatCommand(),
	)
	return root
}

// setup configures logging, checks the credential and builds the injector.
func (s *runState) setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(s.logLevel)
	if err != nil {
		return &usageError{cmd: cmd, err: err}
	}
	if !log.ValidFormat(s.logFormat) {
		return &usageError{cmd: cmd, err: fmt.Errorf("invalid log format %q", s.logFormat)}
	}

	logger := log.New(s.app.Stderr, level, s.logFormat)
	slog.SetDefault(logger)
	ctx := log.NewContext(cmd.Context(), logger)
	cmd.SetContext(ctx)

	if cmd.Annotations[annotationAPIKey] == "" {
		return nil
	}

	apiKey := s.app.Getenv(EnvAPIKey)
	if apiKey == "" {
		return errMissingAPIKey
	}

	s.injector = s.app.Setup(ctx, inject.Config{APIKey: apiKey})
	logger.Debug("injector ready", "command", cmd.Name(), "model", s.model)
	return nil
}

func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{cmd: cmd, err: err}
		}
		return nil
	}
}

func requiresAPIKey() map[string]string {
	return map[string]string{annotationAPIKey: "true"}
}
