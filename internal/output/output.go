package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dshills/lintgate/internal/result"
)

// ErrUnknownFormat is returned by Lookup for unsupported format names.
var ErrUnknownFormat = errors.New("unknown output format")

// Report is an analysis result plus the metadata of the run that produced it.
type Report struct {
	Tool    string
	Version string
	// Root is the directory issue paths are shown relative to.
	Root string
	// Scope is "all", "staged", or the analysed revision range.
	Scope    string
	Tools    []string
	Failed   []string
	Duration time.Duration
	Issues   result.Snapshot
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// Options tune the writers that support them.
type Options struct {
	Color bool
}

var registry = map[string]func(Options) Writer{
	"text":     func(o Options) Writer { return &TextWriter{Color: o.Color} },
	"json":     func(Options) Writer { return &JSONWriter{} },
	"xml":      func(Options) Writer { return &XMLWriter{} },
	"csv":      func(Options) Writer { return &CSVWriter{} },
	"html":     func(Options) Writer { return &HTMLWriter{} },
	"yaml":     func(Options) Writer { return &YAMLWriter{} },
	"sarif":    func(Options) Writer { return &SARIFWriter{} },
	"markdown": func(Options) Writer { return &MarkdownWriter{} },
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a writer for the specified format.
func Lookup(format string, opts Options) (Writer, error) {
	newWriter, ok := registry[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	return newWriter(opts), nil
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *Report, writer Writer, outPath string) error {
	if outPath == "" {
		return writer.Write(os.Stdout, report)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := writer.Write(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// displayPath shows path relative to root when it lies beneath it.
func displayPath(root, path string) string {
	if root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// row is one issue flattened for tabular formats.
type row struct {
	Path string
	Line int
	result.Issue
}

func flatten(s result.Snapshot) []row {
	var rows []row
	for _, f := range s {
		for _, l := range f.Lines {
			for _, issue := range l.Issues {
				rows = append(rows, row{Path: f.Path, Line: l.Line, Issue: issue})
			}
		}
	}
	return rows
}

// toolCounts returns per-tool issue counts in the order of report.Tools,
// followed by any other tools sorted by name.
func toolCounts(report *Report) []toolCount {
	byTool := report.Issues.CountByTool()
	seen := make(map[string]bool, len(byTool))
	var counts []toolCount
	for _, t := range report.Tools {
		if seen[t] {
			continue
		}
		seen[t] = true
		counts = append(counts, toolCount{Tool: t, Count: byTool[t]})
	}
	var rest []string
	for t := range byTool {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	sort.Strings(rest)
	for _, t := range rest {
		counts = append(counts, toolCount{Tool: t, Count: byTool[t]})
	}
	return counts
}

type toolCount struct {
	Tool  string
	Count int
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
