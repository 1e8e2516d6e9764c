package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter outputs the issues as {"file": {"line": [issue, ...]}}.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *Report) error {
	data, err := json.MarshalIndent(report.Issues, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
