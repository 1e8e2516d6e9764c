package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTMLWriter outputs a standalone page with a chart of issues per tool and
// a table of every issue.
type HTMLWriter struct{}

var htmlPage = template.Must(template.New("report").Funcs(template.FuncMap{"join": strings.Join}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>lintgate report</title>
<script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; vertical-align: top; }
th { background: #f4f4f4; }
h2 { margin-top: 2em; }
.meta { color: #666; }
</style>
</head>
<body>
<h1>lintgate report</h1>
<p class="meta">Version {{.Version}} &middot; scope {{.Scope}} &middot; {{.Total}} issue(s) in {{len .Files}} file(s)</p>
{{if .Failed}}<p class="meta">Failed tools: {{join .Failed ", "}}</p>{{end}}
{{.Chart}}
{{range .Files}}
<h2>{{.Path}}</h2>
<table>
<tr><th>Line</th><th>Tool</th><th>Type</th><th>Message</th></tr>
{{range .Rows}}<tr><td>{{.Line}}</td><td>{{.Tool}}</td><td>{{.Type}}</td><td>{{.Message}}</td></tr>
{{end}}</table>
{{else}}
<p>No issues found.</p>
{{end}}
</body>
</html>
`))

type htmlFile struct {
	Path string
	Rows []htmlRow
}

type htmlRow struct {
	Line                int
	Tool, Type, Message string
}

func (h *HTMLWriter) Write(w io.Writer, report *Report) error {
	chart, err := renderToolChart(report)
	if err != nil {
		return err
	}

	data := struct {
		Version, Scope string
		Total          int
		Failed         []string
		Chart          template.HTML
		Files          []htmlFile
	}{
		Version: report.Version,
		Scope:   report.Scope,
		Total:   report.Issues.Count(),
		Failed:  report.Failed,
		Chart:   template.HTML(chart),
	}
	for _, f := range report.Issues {
		file := htmlFile{Path: displayPath(report.Root, f.Path)}
		for _, l := range f.Lines {
			for _, issue := range l.Issues {
				file.Rows = append(file.Rows, htmlRow{
					Line:    l.Line,
					Tool:    issue.Tool,
					Type:    issue.Type,
					Message: strings.TrimSpace(issue.Message),
				})
			}
		}
		data.Files = append(data.Files, file)
	}

	if err := htmlPage.Execute(w, data); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

// renderToolChart renders a bar chart of issues per tool and returns the
// chart markup without the surrounding page.
func renderToolChart(report *Report) (string, error) {
	counts := toolCounts(report)
	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		labels[i] = c.Tool
		data[i] = opts.BarData{Value: c.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Issues per tool"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Issues", data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return extractChart(buf.String()), nil
}

// extractChart keeps the chart container and its script from a full
// go-echarts page.
func extractChart(page string) string {
	start := strings.Index(page, `<div class="container">`)
	end := strings.Index(page, `</body>`)
	if start == -1 || end == -1 || end < start {
		return page
	}
	return page[start:end]
}
