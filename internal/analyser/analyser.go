package analyser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/lintgate/internal/integration"
	"github.com/dshills/lintgate/internal/result"
)

// ErrInvalidJobs is returned by New for a negative job count.
var ErrInvalidJobs = errors.New("jobs must be zero or positive")

// Runner executes a single tool. *integration.Runner implements it.
type Runner interface {
	Run(ctx context.Context, tool integration.Tool, targets, ignored []string) (*result.Store, error)
}

// Recorder observes finished tool runs.
type Recorder interface {
	ToolFinished(tool string, d time.Duration, issues int, err error)
}

// Option configures an Analyser.
type Option func(*Analyser)

// WithJobs bounds the number of tools running at once. Zero uses the number
// of CPUs.
func WithJobs(n int) Option { return func(a *Analyser) { a.jobs = n } }

// WithIgnored sets the paths every tool is told to skip.
func WithIgnored(paths []string) Option { return func(a *Analyser) { a.ignored = paths } }

// WithRoot sets the repository root used to detect vendored files.
func WithRoot(root string) Option { return func(a *Analyser) { a.root = root } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(a *Analyser) { a.logger = l } }

// WithListener sets the progress listener.
func WithListener(l Listener) Option { return func(a *Analyser) { a.listener = l } }

// WithFilter sets the filter attached to the returned store.
func WithFilter(f result.Filter) Option { return func(a *Analyser) { a.filter = f } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option { return func(a *Analyser) { a.recorder = r } }

// Analyser runs tools and merges their results.
type Analyser struct {
	tools    []integration.Tool
	runner   Runner
	jobs     int
	ignored  []string
	root     string
	logger   *slog.Logger
	listener Listener
	filter   result.Filter
	recorder Recorder

	mu sync.Mutex
}

// New returns an Analyser for tools, in the order given.
func New(tools []integration.Tool, runner Runner, opts ...Option) (*Analyser, error) {
	a := &Analyser{
		tools:    tools,
		runner:   runner,
		logger:   slog.New(slog.DiscardHandler),
		listener: nopListener{},
		filter:   result.Identity,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.jobs < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidJobs, a.jobs)
	}
	if a.jobs == 0 {
		a.jobs = runtime.NumCPU()
	}
	return a, nil
}

type outcome struct {
	store *result.Store
	err   error
}

// Run analyses targets with every tool. The returned store carries the
// configured filter. Tool failures do not stop other tools; they are joined
// into the returned error, and the store holds the results of the tools that
// succeeded.
func (a *Analyser) Run(ctx context.Context, targets []string) (*result.Store, error) {
	a.emit(Event{Kind: EventStartingAnalysis})

	outcomes := make([]outcome, len(a.tools))
	if len(targets) > 0 {
		var g errgroup.Group
		g.SetLimit(a.jobs)
		for i, tool := range a.tools {
			g.Go(func() error {
				outcomes[i] = a.runTool(ctx, tool, targets)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		a.logger.Info("nothing to analyse")
	}

	master := result.NewStore()
	var errs []error
	for i, o := range outcomes {
		if o.err != nil {
			errs = append(errs, o.err)
			continue
		}
		if o.store != nil {
			a.logger.Debug("merging results", "tool", a.tools[i].Name(), "issues", o.store.Len())
			master.MergeWith(o.store)
		}
	}
	master.SetResultsFilter(a.filter)

	a.emit(Event{Kind: EventFinishedAnalysis})
	return master, errors.Join(errs...)
}

func (a *Analyser) runTool(ctx context.Context, tool integration.Tool, targets []string) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{err: fmt.Errorf("%s: %w", tool.Name(), err)}
	}

	toolTargets := narrowTargets(tool, a.root, targets, a.logger)
	if len(toolTargets) == 0 {
		a.logger.Debug("no targets for tool", "tool", tool.Name())
		return outcome{}
	}

	a.emit(Event{Kind: EventStartingTool, Tool: tool.Description(), Ignored: a.ignored})

	start := time.Now()
	store, err := a.runner.Run(ctx, tool, toolTargets, a.ignored)
	elapsed := time.Since(start)

	issues := 0
	if store != nil {
		issues = store.Len()
	}
	if err != nil {
		a.logger.Error("tool failed", "tool", tool.Name(), "error", err)
	} else {
		a.logger.Info("tool finished", "tool", tool.Name(), "issues", issues, "duration", elapsed)
	}
	if a.recorder != nil {
		a.recorder.ToolFinished(tool.Description(), elapsed, issues, err)
	}

	a.emit(Event{
		Kind:     EventFinishedTool,
		Tool:     tool.Description(),
		Issues:   issues,
		Duration: elapsed,
		Err:      err,
	})
	return outcome{store: store, err: err}
}

func (a *Analyser) emit(e Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger.Debug("event", "kind", e.Kind.String(), "tool", e.Tool)
	a.listener.Trigger(e)
}
