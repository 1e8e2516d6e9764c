package output

import (
	"io"

	"github.com/fatih/color"

	"github.com/dshills/lintgate/internal/analyser"
)

// Progress prints analysis progress. It implements analyser.Listener.
type Progress struct {
	w   io.Writer
	ok  *color.Color
	bad *color.Color
	// open is the tool whose "Running" line is not yet terminated.
	open string
	last string
}

var _ analyser.Listener = (*Progress)(nil)

// NewProgress returns a listener writing to w.
func NewProgress(w io.Writer, useColor bool) *Progress {
	t := &TextWriter{Color: useColor}
	return &Progress{
		w:   w,
		ok:  t.paint(color.FgGreen),
		bad: t.paint(color.FgRed),
	}
}

// Trigger prints the message for e.
func (p *Progress) Trigger(e analyser.Event) {
	ew := &errWriter{w: p.w}
	switch e.Kind {
	case analyser.EventStartingAnalysis:
		ew.println(p.ok.Sprint("Starting analysis"))
	case analyser.EventStartingTool:
		if p.open != "" {
			ew.println("")
		}
		p.open, p.last = e.Tool, e.Tool
		ew.printf("Running %s... ", e.Tool)
		if len(e.Ignored) > 0 {
			ew.println("Ignored paths:")
			for _, path := range e.Ignored {
				ew.println("     " + path)
			}
			p.open = ""
		}
	case analyser.EventFinishedTool:
		if p.open != "" && p.open != e.Tool {
			ew.println("")
		}
		if p.last != e.Tool {
			ew.printf("%s: ", e.Tool)
		}
		p.open, p.last = "", ""
		if e.Err != nil {
			ew.println(p.bad.Sprintf("Failed: %v", e.Err))
			return
		}
		ew.println("Done!")
	case analyser.EventFinishedAnalysis:
		ew.println(p.ok.Sprint("Analysis complete!"))
	}
}
