package integration

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dshills/lintgate/internal/result"
)

// PHPCodeSniffer runs PHP_CodeSniffer with the PSR2 standard.
type PHPCodeSniffer struct{}

func (PHPCodeSniffer) Name() string        { return "phpcs" }
func (PHPCodeSniffer) Description() string { return "PHPCodeSniffer" }
func (PHPCodeSniffer) Binary() string      { return "phpcs" }
func (PHPCodeSniffer) Languages() []string { return []string{"PHP"} }

// SuccessCodes: 1 and 2 mean violations were found.
func (PHPCodeSniffer) SuccessCodes() []int { return []int{0, 1, 2} }

func (PHPCodeSniffer) Args(targets, ignored []string, reportPath string) []string {
	args := []string{"-q", "--standard=PSR2", "--report=xml"}
	if len(ignored) > 0 {
		args = append(args, "--ignore="+strings.Join(ignored, ","))
	}
	args = append(args, "--report-file="+reportPath)
	return append(args, targets...)
}

type phpcsReport struct {
	Files []struct {
		Name     string         `xml:"name,attr"`
		Messages []phpcsMessage `xml:",any"`
	} `xml:"file"`
}

// phpcsMessage is an <error> or <warning> element.
type phpcsMessage struct {
	Line   string `xml:"line,attr"`
	Source string `xml:"source,attr"`
	Text   string `xml:",chardata"`
}

func (t PHPCodeSniffer) Parse(r io.Reader, store *result.Store, logger *slog.Logger) error {
	logger = orDiscard(logger)
	var report phpcsReport
	if err := xml.NewDecoder(r).Decode(&report); err != nil {
		return fmt.Errorf("decoding %s report: %w", t.Name(), err)
	}
	for _, f := range report.Files {
		for _, m := range f.Messages {
			record(store, logger, f.Name, m.Line, t.Description(), m.Source, m.Text)
		}
	}
	return nil
}
