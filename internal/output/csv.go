package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVWriter outputs one record per issue.
type CSVWriter struct{}

var csvHeader = []string{"File", "Line", "Tool", "Type", "Message"}

func (c *CSVWriter) Write(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	for _, r := range flatten(report.Issues) {
		record := []string{r.Path, strconv.Itoa(r.Line), r.Tool, r.Type, r.Message}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
