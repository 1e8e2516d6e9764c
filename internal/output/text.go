package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct {
	Color bool
}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}
	file := t.paint(color.FgYellow, color.Bold)
	line := t.paint(color.FgCyan)
	faint := t.paint(color.Faint)

	for _, f := range report.Issues {
		ew.println("")
		ew.println(file.Sprintf("== %s ==", displayPath(report.Root, f.Path)))
		for _, l := range f.Lines {
			for _, issue := range l.Issues {
				ew.printf("%s%s %s\n",
					line.Sprint(strconv.Itoa(l.Line)+": "),
					strings.TrimSpace(issue.Message),
					faint.Sprintf("(%s)", issue.Tool))
			}
		}
	}

	ew.println("")
	if report.Issues.Empty() {
		ew.println(t.paint(color.FgGreen).Sprint("No issues found."))
	}
	ew.printf("lintgate %s (scope: %s)\n", report.Version, report.Scope)
	ew.println(summaryTable(report))
	if len(report.Failed) > 0 {
		ew.println(t.paint(color.FgRed).Sprintf("Failed tools: %s", strings.Join(report.Failed, ", ")))
	}
	return ew.err
}

// paint returns a color that honours t.Color regardless of the terminal.
func (t *TextWriter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func summaryTable(report *Report) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Tool", "Issues"})
	for _, c := range toolCounts(report) {
		tbl.AppendRow(table.Row{c.Tool, c.Count})
	}
	tbl.AppendFooter(table.Row{"Total", report.Issues.Count()})
	return tbl.Render()
}
