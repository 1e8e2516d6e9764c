package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// SARIFWriter outputs issues in SARIF v2.1.0 format, one rule per tool and
// issue type.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func buildSARIF(report *Report) sarifLog {
	var rules []sarifRule
	seen := make(map[string]bool)
	results := []sarifResult{}

	for _, r := range flatten(report.Issues) {
		ruleID := sarifRuleID(r.Tool, r.Type)
		if !seen[ruleID] {
			seen[ruleID] = true
			rules = append(rules, sarifRule{
				ID:               ruleID,
				Name:             r.Type,
				ShortDescription: sarifMessage{Text: r.Type},
				DefaultConfig:    sarifDefaultConfig{Level: "warning"},
				Properties:       sarifRuleProperties{Tags: []string{r.Tool}},
			})
		}

		location := sarifArtifactLocation{URI: displayPath(report.Root, r.Path)}
		if report.Root != "" && location.URI != r.Path {
			location.URIBaseID = "%SRCROOT%"
		}
		results = append(results, sarifResult{
			RuleID:  ruleID,
			Level:   "warning",
			Message: sarifMessage{Text: strings.TrimSpace(r.Message)},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: location,
					Region:           sarifRegion{StartLine: r.Line},
				},
			}},
		})
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           report.Tool,
						Version:        report.Version,
						InformationURI: "https://github.com/dshills/lintgate",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// sarifRuleID builds a stable rule ID from the tool and issue type.
func sarifRuleID(tool, issueType string) string {
	if issueType == "" {
		issueType = "issue"
	}
	return tool + "/" + issueType
}
