package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dshills/lintgate/internal/result"
)

// ErrReportTooLarge is returned when a tool writes a report over the
// configured size limit.
var ErrReportTooLarge = errors.New("tool report too large")

// maxStderr bounds how much of a tool's stderr is kept for error messages.
const maxStderr = 8 << 10

// waitDelay bounds how long a killed tool's children may hold its pipes.
const waitDelay = 2 * time.Second

// ExecError describes a tool that could not be started or exited with a code
// outside its success set. ExitCode is -1 when the process never ran.
type ExecError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	var b strings.Builder
	if e.ExitCode < 0 {
		fmt.Fprintf(&b, "%s: could not run", e.Tool)
	} else {
		fmt.Fprintf(&b, "%s: exit code %d", e.Tool, e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	if e.Stderr != "" {
		b.WriteString(": " + e.Stderr)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error { return e.Err }

// Runner executes tools and parses their reports.
type Runner struct {
	// BinPath is prepended to tool binaries when set. Otherwise they are
	// resolved through PATH.
	BinPath string
	// Timeout bounds a single tool run. Zero means no limit.
	Timeout time.Duration
	// MaxReportSize bounds the report file in bytes. Zero means no limit.
	MaxReportSize int64
	// TempDir holds report files. Empty uses the system default.
	TempDir string
	Logger  *slog.Logger
}

// Command returns the executable path for tool.
func (r *Runner) Command(tool Tool) string {
	if r.BinPath == "" {
		return tool.Binary()
	}
	return filepath.Join(r.BinPath, tool.Binary())
}

// Run executes tool against targets and returns its issues in a new store.
func (r *Runner) Run(ctx context.Context, tool Tool, targets, ignored []string) (*result.Store, error) {
	logger := orDiscard(r.Logger).With("tool", tool.Name())

	report, err := os.CreateTemp(r.TempDir, "lintgate-"+tool.Name()+"-*.xml")
	if err != nil {
		return nil, fmt.Errorf("creating report file: %w", err)
	}
	reportPath := report.Name()
	report.Close()
	defer os.Remove(reportPath)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	bin := r.Command(tool)
	args := tool.Args(targets, ignored, reportPath)
	logger.Debug("running tool", "bin", bin, "args", args)

	stderr := &boundedBuffer{limit: maxStderr}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	runErr := cmd.Run()
	logger.Debug("tool exited", "duration", time.Since(start))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", tool.Name(), ctxErr)
	}

	code := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, &ExecError{Tool: tool.Name(), ExitCode: -1, Err: runErr}
		}
		code = exitErr.ExitCode()
	}
	if !slices.Contains(tool.SuccessCodes(), code) {
		return nil, &ExecError{
			Tool:     tool.Name(),
			ExitCode: code,
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}

	return r.parseReport(tool, reportPath, logger)
}

func (r *Runner) parseReport(tool Tool, reportPath string, logger *slog.Logger) (*result.Store, error) {
	store := result.NewStore()

	info, err := os.Stat(reportPath)
	if err != nil {
		return nil, fmt.Errorf("%s: reading report: %w", tool.Name(), err)
	}
	if r.MaxReportSize > 0 && info.Size() > r.MaxReportSize {
		return nil, fmt.Errorf("%s: %w: %s exceeds %s", tool.Name(), ErrReportTooLarge,
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(r.MaxReportSize)))
	}
	if info.Size() == 0 {
		logger.Debug("empty report")
		return store, nil
	}

	f, err := os.Open(reportPath)
	if err != nil {
		return nil, fmt.Errorf("%s: reading report: %w", tool.Name(), err)
	}
	defer f.Close()

	if err := tool.Parse(f, store, logger); err != nil {
		return nil, err
	}
	logger.Debug("parsed report", "issues", store.Len(), "bytes", info.Size())
	return store, nil
}

// boundedBuffer keeps the first limit bytes written to it and discards the
// rest.
type boundedBuffer struct {
	buf   bytes.Buffer
	limit int
	cut   bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
			b.cut = true
		} else {
			b.buf.Write(p)
		}
	} else if len(p) > 0 {
		b.cut = true
	}
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	if b.cut {
		return b.buf.String() + "…"
	}
	return b.buf.String()
}
