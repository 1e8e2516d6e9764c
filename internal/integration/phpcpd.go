package integration

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/lintgate/internal/result"
)

// PHPCopyPasteDetector runs phpcpd. Every file taking part in a duplication
// gets one issue at the line the clone starts.
type PHPCopyPasteDetector struct{}

func (PHPCopyPasteDetector) Name() string        { return "phpcpd" }
func (PHPCopyPasteDetector) Description() string { return "PHPCopyPasteDetector" }
func (PHPCopyPasteDetector) Binary() string      { return "phpcpd" }
func (PHPCopyPasteDetector) Languages() []string { return []string{"PHP"} }
func (PHPCopyPasteDetector) SuccessCodes() []int { return []int{0, 1} }

func (PHPCopyPasteDetector) Args(targets, ignored []string, reportPath string) []string {
	args := append([]string{}, targets...)
	for _, p := range ignored {
		args = append(args, "--exclude="+p)
	}
	return append(args, "--log-pmd="+reportPath)
}

type cpdReport struct {
	Duplications []struct {
		Files []struct {
			Path string `xml:"path,attr"`
			Line string `xml:"line,attr"`
		} `xml:"file"`
	} `xml:"duplication"`
}

const (
	duplicationType    = "duplication"
	duplicationMessage = "Duplicated code"
)

func (t PHPCopyPasteDetector) Parse(r io.Reader, store *result.Store, logger *slog.Logger) error {
	logger = orDiscard(logger)
	var report cpdReport
	if err := xml.NewDecoder(r).Decode(&report); err != nil {
		return fmt.Errorf("decoding %s report: %w", t.Name(), err)
	}
	for _, d := range report.Duplications {
		for _, f := range d.Files {
			record(store, logger, f.Path, f.Line, t.Description(), duplicationType, duplicationMessage)
		}
	}
	return nil
}
