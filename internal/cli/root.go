package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dshills/lintgate/internal/config"
)

const version = "0.3.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitIssues       = 1
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

// app holds the state shared by one command invocation.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	exitCode int
}

// Run executes the root command with the process arguments and returns an
// exit code.
func Run() int {
	return Execute(os.Args[1:], os.Stdout, os.Stderr)
}

// Execute runs the command tree with args and returns an exit code. An
// interrupt cancels the running tools.
func Execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{stdout: stdout, stderr: stderr, exitCode: ExitSuccess}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return a.exitCode
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lintgate",
		Short: "Run PHP quality tools and gate on their issues",
		Long: "Lintgate runs PHP static analysis tools in parallel, merges their issues per file and line, " +
			"optionally keeps only issues on lines a change added, and reports them with deterministic exit codes.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Config file (default: ./"+config.FileName+")")

	root.AddCommand(a.analyzeCmd())
	root.AddCommand(a.toolsCmd())
	root.AddCommand(a.formatsCmd())
	root.AddCommand(a.configCmd())
	root.AddCommand(a.hookCmd())
	root.AddCommand(a.versionCmd())
	return root
}

// fail reports a runtime error and sets the runtime exit code.
func (a *app) fail(format string, args ...any) {
	fmt.Fprintf(a.stderr, "Error: "+format+"\n", args...)
	a.exitCode = ExitRuntimeError
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print lintgate version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "lintgate version %s\n", version)
		},
	}
}
