package output

import (
	"encoding/xml"
	"fmt"
	"io"
)

// XMLWriter outputs the issues grouped by file and line.
type XMLWriter struct{}

type xmlReport struct {
	XMLName xml.Name  `xml:"lintgate"`
	Version string    `xml:"version,attr,omitempty"`
	Scope   string    `xml:"scope,attr,omitempty"`
	Files   []xmlFile `xml:"file"`
}

type xmlFile struct {
	Name  string    `xml:"name,attr"`
	Lines []xmlLine `xml:"line"`
}

type xmlLine struct {
	Number int        `xml:"number,attr"`
	Issues []xmlIssue `xml:"issue"`
}

type xmlIssue struct {
	Tool    string `xml:"tool,attr"`
	Type    string `xml:"type,attr"`
	Message string `xml:",chardata"`
}

func (x *XMLWriter) Write(w io.Writer, report *Report) error {
	doc := xmlReport{Version: report.Version, Scope: report.Scope}
	for _, f := range report.Issues {
		file := xmlFile{Name: f.Path}
		for _, l := range f.Lines {
			line := xmlLine{Number: l.Line}
			for _, issue := range l.Issues {
				line.Issues = append(line.Issues, xmlIssue{Tool: issue.Tool, Type: issue.Type, Message: issue.Message})
			}
			file.Lines = append(file.Lines, line)
		}
		doc.Files = append(doc.Files, file)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing XML: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding XML: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}
