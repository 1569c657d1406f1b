// Package cli implements the cobra-based CLI for appbuild.
//
// The root command performs the build itself so the tool keeps working
// when invoked with zero parameters from a build script. The plan
// subcommand shows the computed order without touching the output file.
// This file defines the root command, the global flags, and the single
// error boundary that maps every outcome to a process exit code.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bluestar-os/appbuild/internal/ctxlog"
	"github.com/bluestar-os/appbuild/internal/model"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// globalFlags holds the persistent flags shared by every command.
// All of them are optional; the zero value reproduces the default layout.
type globalFlags struct {
	// configPath is an explicit configuration file. When empty, the
	// working directory is searched for appbuild.{jsonc,json,yaml,yml,hcl}.
	configPath string

	// rootDir overrides the repository root from the configuration.
	rootDir string

	// verbose enables debug logging on stderr.
	verbose bool

	// ascii forces plain-text confirmation markers.
	ascii bool
}

// NewRootCommand creates and configures the root cobra command.
// Running it without a subcommand builds the application image.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "appbuild",
		Short: "Embed user applications into the kernel image",
		Long: `appbuild scans the user program sources, orders them so init and idle
occupy the fixed slots 0 and 1, and generates the assembly file that embeds
every compiled binary into the kernel's data segment.

Run it from the kernel directory with no arguments:
  appbuild

Inspect the order without writing anything:
  appbuild plan`,

		// The build takes no positional arguments.
		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves in Run.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRunE runs before every command and installs the
		// logger into the command context.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), flags.verbose)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			console := NewConsole(cmd.OutOrStdout(), flags.ascii)
			return runBuild(cmd.Context(), flags, console)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file (default: appbuild.{jsonc,json,yaml,yml,hcl} if present)")
	rootCmd.PersistentFlags().StringVar(&flags.rootDir, "root", "", "Repository root (default: \"..\" or the value from the configuration file)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.ascii, "ascii", false, "Use plain-text markers instead of Unicode glyphs")

	rootCmd.AddCommand(NewPlanCommand(flags))

	return rootCmd
}

// newLogger creates a text slog.Logger on w. Debug records are only
// emitted in verbose mode.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// stackTracer is implemented by errors created or wrapped with
// github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Run executes rootCmd and returns the exit code. It is the only place
// where failures are turned into messages and exit codes:
//
//   - success, including zero applications     → 0
//   - context cancelled (SIGINT/SIGTERM)        → "Aborted by user.", 1
//   - *model.CLIError                           → its message and code
//   - any other error                           → message plus stack trace, 1
//   - panic                                     → message plus goroutine stack, 1
func Run(ctx context.Context, rootCmd *cobra.Command, errW io.Writer) (code model.ExitCode) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errW, "\nError: %v\n", r)
			_, _ = errW.Write(debug.Stack())
			code = model.ExitGeneralError
		}
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return model.ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(errW, "\n\nAborted by user.")
		return model.ExitInterrupted
	}

	printError(errW, err)

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return model.ExitGeneralError
}

// printError writes "Error: <message>" followed by the recorded stack
// trace when the error carries one.
func printError(errW io.Writer, err error) {
	fmt.Fprintf(errW, "\nError: %v\n", err)

	var st stackTracer
	if errors.As(err, &st) {
		fmt.Fprintf(errW, "%+v\n", st.StackTrace())
	}
}
