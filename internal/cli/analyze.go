package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/dshills/lintgate/internal/analyser"
	"github.com/dshills/lintgate/internal/config"
	"github.com/dshills/lintgate/internal/integration"
	"github.com/dshills/lintgate/internal/logging"
	"github.com/dshills/lintgate/internal/metrics"
	"github.com/dshills/lintgate/internal/output"
)

func addAnalyzeFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringP("format", "f", d.Format, "Output format ("+strings.Join(output.Formats(), ", ")+")")
	fs.StringP("out", "o", "", "Output file path (default: stdout)")
	fs.StringSlice("ignore", d.Ignore, "Paths the tools skip (comma-separated)")
	fs.StringSlice("tools", d.Tools, "Tools to run (comma-separated)")
	fs.String("bin-path", "", "Directory holding the tool binaries (default: $PATH)")
	fs.IntP("jobs", "j", 0, "Tools run at once (0: number of CPUs)")
	fs.Duration("timeout", d.Timeout, "Per-tool timeout (0: none)")
	fs.String("max-report-size", d.MaxReportSize, "Largest tool report accepted (0: unlimited)")
	fs.String("git-diff", "", "Only report issues on lines added in a revision range (base..changed)")
	fs.Bool("staged", false, "Only report issues on lines added in the index (the tools read the working tree; unstaged edits shift lines)")
	fs.String("baseline", "", "Only report issues on lines added since a copy of the tree in this directory")
	fs.String("color", d.Color, "Colorize text output (auto, always, never)")
	fs.String("metrics-file", "", "Write Prometheus metrics for the run to this file")
	fs.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	fs.String("log-format", d.Log.Format, "Log format (text, json)")
}

func (a *app) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analyze [paths...]",
		Aliases: []string{"analyse"},
		Short:   "Run the tools and report their issues",
		Long: "Run the configured tools over the given paths (default: the configured paths) and report " +
			"their issues. With --git-diff, --staged or --baseline only issues on added lines are reported.\n\n" +
			"--staged takes added lines from the index but the tools analyse the working tree, so files " +
			"with unstaged edits may report issues on the wrong lines; a warning is logged for them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Paths = args
			}
			return a.analyze(cmd.Context(), cfg)
		},
	}
	addAnalyzeFlags(cmd.Flags())
	return cmd
}

// analyze runs one analysis. Returned errors are usage errors; runtime
// failures set the exit code instead.
func (a *app) analyze(ctx context.Context, cfg *config.Config) error {
	useColor := a.colorEnabled(cfg)
	writer, err := output.Lookup(cfg.Format, output.Options{Color: useColor})
	if err != nil {
		return err
	}
	tools, err := integration.Lookup(cfg.Tools)
	if err != nil {
		return err
	}
	logger := logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format)

	sc, err := resolveScope(ctx, cfg, logger)
	if err != nil {
		a.fail("%v", err)
		return nil
	}
	logger.Info("scope resolved", "scope", sc.name, "root", sc.root, "targets", len(sc.targets))

	runner := &integration.Runner{
		BinPath:       cfg.BinPath,
		Timeout:       cfg.Timeout,
		MaxReportSize: cfg.MaxReportBytes(),
		Logger:        logger,
	}
	run := metrics.NewRun()
	failed := &failedTools{}
	var listener analyser.Listener = failed
	if strings.EqualFold(cfg.Format, "text") {
		progressColor := useColor
		if cfg.Color == config.ColorAuto {
			progressColor = progressColor && isTerminal(a.stderr)
		}
		failed.next = output.NewProgress(a.stderr, progressColor)
	}

	an, err := analyser.New(tools, runner,
		analyser.WithJobs(cfg.Jobs),
		analyser.WithIgnored(cfg.Ignore),
		analyser.WithRoot(sc.root),
		analyser.WithLogger(logger),
		analyser.WithListener(listener),
		analyser.WithFilter(sc.filter),
		analyser.WithRecorder(run),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	store, runErr := an.Run(ctx, sc.targets)
	issues := store.Snapshot()
	logger.Info("analysis finished", "issues", issues.Count(), "files", len(issues.Files()))

	report := &output.Report{
		Tool:     "lintgate",
		Version:  version,
		Root:     sc.root,
		Scope:    sc.name,
		Tools:    descriptions(tools),
		Failed:   failed.ordered(tools),
		Duration: time.Since(start),
		Issues:   issues,
	}
	if err := output.WriteReport(report, writer, cfg.Out); err != nil {
		a.fail("writing output: %v", err)
		return nil
	}

	run.SetReported(issues.Count())
	if cfg.MetricsFile != "" {
		if err := run.WriteFile(cfg.MetricsFile); err != nil {
			a.fail("%v", err)
			return nil
		}
	}

	if runErr != nil {
		a.fail("%v", runErr)
		return nil
	}
	if !issues.Empty() {
		a.exitCode = ExitIssues
	}
	return nil
}

// colorEnabled resolves the color mode. auto colors only a terminal stdout
// and honors NO_COLOR.
func (a *app) colorEnabled(cfg *config.Config) bool {
	switch cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if cfg.Out != "" || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(a.stdout)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func descriptions(tools []integration.Tool) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Description()
	}
	return names
}

// failedTools records the tools that finished with an error and forwards
// every event to next.
type failedTools struct {
	next   analyser.Listener
	failed []string
}

func (f *failedTools) Trigger(e analyser.Event) {
	if e.Kind == analyser.EventFinishedTool && e.Err != nil {
		f.failed = append(f.failed, e.Tool)
	}
	if f.next != nil {
		f.next.Trigger(e)
	}
}

// ordered returns the failed tools in registration order.
func (f *failedTools) ordered(tools []integration.Tool) []string {
	var out []string
	for _, t := range tools {
		if slices.Contains(f.failed, t.Description()) {
			out = append(out, t.Description())
		}
	}
	return out
}

func (a *app) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the output formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range output.Formats() {
				fmt.Fprintln(a.stdout, f)
			}
		},
	}
}
