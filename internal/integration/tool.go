package integration

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dshills/lintgate/internal/result"
)

// ErrUnknownTool is returned by Lookup for names not in the registry.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is an external analysis tool.
type Tool interface {
	// Name is the short key used in configuration, e.g. "phpcs".
	Name() string
	// Description is recorded as the tool of every issue it reports.
	Description() string
	// Binary is the executable name, resolved against the bin path.
	Binary() string
	// Languages lists the enry language names the tool analyses.
	Languages() []string
	// Args builds the command line. reportPath is where the tool must write
	// its report.
	Args(targets, ignored []string, reportPath string) []string
	// SuccessCodes are the exit codes that mean the report is valid.
	SuccessCodes() []int
	// Parse reads a report and records its issues in store.
	Parse(r io.Reader, store *result.Store, logger *slog.Logger) error
}

// All returns the built-in tools in registration order.
func All() []Tool {
	return []Tool{
		PHPCodeSniffer{},
		PHPCopyPasteDetector{},
		PHPMessDetector{},
	}
}

// Names returns the keys of the built-in tools.
func Names() []string {
	tools := All()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return names
}

// Lookup resolves tool names, keeping registration order. An empty list
// selects every tool.
func Lookup(names []string) ([]Tool, error) {
	if len(names) == 0 {
		return All(), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		want[n] = true
	}
	var tools []Tool
	for _, t := range All() {
		if want[t.Name()] {
			tools = append(tools, t)
			delete(want, t.Name())
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if want[n] {
				unknown = append(unknown, n)
				delete(want, n)
			}
		}
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownTool,
			strings.Join(unknown, ", "), strings.Join(Names(), ", "))
	}
	return tools, nil
}

// record adds one issue, skipping records whose line is not a positive
// integer.
func record(store *result.Store, logger *slog.Logger, file, line, tool, typ, message string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n <= 0 || file == "" {
		logger.Debug("skipping report record", "tool", tool, "file", file, "line", line)
		return false
	}
	store.AddIssue(file, n, tool, typ, message)
	return true
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
