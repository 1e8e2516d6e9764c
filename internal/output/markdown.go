package output

import (
	"io"
	"strings"
	"time"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.printf("## lintgate report\n\n")
	ew.printf("Scope: `%s`\n\n", report.Scope)

	// Summary table
	ew.printf("| Tool | Issues |\n")
	ew.printf("|------|--------|\n")
	for _, c := range toolCounts(report) {
		ew.printf("| %s | %d |\n", mdEscape(c.Tool), c.Count)
	}
	ew.printf("| **Total** | **%d** |\n\n", report.Issues.Count())

	if len(report.Failed) > 0 {
		ew.printf("> :warning: Failed tools: %s\n\n", strings.Join(report.Failed, ", "))
	}

	if report.Issues.Empty() {
		ew.println("No issues found. :white_check_mark:")
		return ew.err
	}

	// Collapsible section per file
	for _, f := range report.Issues {
		path := displayPath(report.Root, f.Path)
		count := 0
		for _, l := range f.Lines {
			count += len(l.Issues)
		}
		ew.printf("<details>\n<summary><code>%s</code> (%d)</summary>\n\n", path, count)
		ew.printf("| Line | Tool | Type | Message |\n")
		ew.printf("|------|------|------|---------|\n")
		for _, l := range f.Lines {
			for _, issue := range l.Issues {
				ew.printf("| %d | %s | `%s` | %s |\n",
					l.Line, mdEscape(issue.Tool), issue.Type, mdEscape(strings.TrimSpace(issue.Message)))
			}
		}
		ew.printf("\n</details>\n\n")
	}

	ew.printf("*Analysed in %s*\n", report.Duration.Round(time.Millisecond))
	return ew.err
}

// mdEscape keeps text from breaking a table cell.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

