package integration

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dshills/lintgate/internal/result"
)

// phpmdRulesets are the rule sets enabled for every run.
const phpmdRulesets = "cleancode,codesize,controversial,design,naming,unusedcode"

// PHPMessDetector runs phpmd with the standard rule sets.
type PHPMessDetector struct{}

func (PHPMessDetector) Name() string        { return "phpmd" }
func (PHPMessDetector) Description() string { return "PHPMessDetector" }
func (PHPMessDetector) Binary() string      { return "phpmd" }
func (PHPMessDetector) Languages() []string { return []string{"PHP"} }

// SuccessCodes: 2 means violations were found.
func (PHPMessDetector) SuccessCodes() []int { return []int{0, 2} }

func (PHPMessDetector) Args(targets, ignored []string, reportPath string) []string {
	args := []string{strings.Join(targets, ","), "xml", phpmdRulesets, "--reportfile", reportPath}
	if len(ignored) > 0 {
		args = append(args, "--exclude", strings.Join(ignored, ","))
	}
	return args
}

type pmdReport struct {
	Files []struct {
		Name       string `xml:"name,attr"`
		Violations []struct {
			BeginLine string `xml:"beginline,attr"`
			Rule      string `xml:"rule,attr"`
			Text      string `xml:",chardata"`
		} `xml:"violation"`
	} `xml:"file"`
	Errors []struct {
		Filename string `xml:"filename,attr"`
		Msg      string `xml:"msg,attr"`
	} `xml:"error"`
}

func (t PHPMessDetector) Parse(r io.Reader, store *result.Store, logger *slog.Logger) error {
	logger = orDiscard(logger)
	var report pmdReport
	if err := xml.NewDecoder(r).Decode(&report); err != nil {
		return fmt.Errorf("decoding %s report: %w", t.Name(), err)
	}
	for _, f := range report.Files {
		for _, v := range f.Violations {
			record(store, logger, f.Name, v.BeginLine, t.Description(), v.Rule, strings.TrimSpace(v.Text))
		}
	}
	for _, e := range report.Errors {
		logger.Warn("phpmd could not process file", "file", e.Filename, "error", e.Msg)
	}
	return nil
}
