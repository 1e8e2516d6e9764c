// Package output formats analysis reports for display or machine consumption.
//
// Supported formats:
//   - text     — coloured terminal output with a per-tool summary (default)
//   - json     — {"file": {"line": [issue, ...]}} in snapshot order
//   - xml      — the same grouping as nested file/line/issue elements
//   - csv      — one record per issue
//   - html     — standalone page with a chart of issues per tool
//   - yaml     — the JSON grouping as an ordered YAML mapping
//   - sarif    — SARIF v2.1.0 for code-scanning uploads
//   - markdown — PR-comment-friendly with a collapsible section per file
//
// Use [Lookup] to obtain a [Writer] for a format name, then [WriteReport] to
// send it to a file or stdout. [Progress] prints analysis progress as it
// happens.
package output
