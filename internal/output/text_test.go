package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/lintgate/internal/analyser"
)

func TestTextWriter_WithIssues(t *testing.T) {
	t.Parallel()

	out := render(t, &TextWriter{}, sampleReport())

	assert.Contains(t, out, "== src/A.php ==")
	assert.Contains(t, out, "== src/B.php ==")
	assert.Contains(t, out, "3: Expected 0 spaces | got 1 (PHPCodeSniffer)", "message is trimmed")
	assert.Contains(t, out, "40: Line exceeds 120 characters")
	assert.Less(t, strings.Index(out, "src/A.php"), strings.Index(out, "src/B.php"))
	assert.Contains(t, out, "PHPCopyPasteDetector")
	assert.Contains(t, out, "(scope: main..feature)\n")
	assert.NotContains(t, out, "\x1b[", "no escape codes without color")
}

func TestTextWriter_LongScopeNotWrapped(t *testing.T) {
	t.Parallel()

	r := emptyReport()
	r.Scope = "origin/release-candidate-2024...feature/very-long-branch-name"
	out := render(t, &TextWriter{}, r)
	assert.Contains(t, out, "lintgate "+r.Version+" (scope: "+r.Scope+")\n")
}

func TestTextWriter_NoIssues(t *testing.T) {
	t.Parallel()

	out := render(t, &TextWriter{}, emptyReport())
	assert.Contains(t, out, "No issues found.")
	assert.NotContains(t, out, "==")
}

func TestTextWriter_Color(t *testing.T) {
	t.Parallel()

	out := render(t, &TextWriter{Color: true}, sampleReport())
	assert.Contains(t, out, "\x1b[")
}

func TestTextWriter_Failed(t *testing.T) {
	t.Parallel()

	r := emptyReport()
	r.Failed = []string{"PHPMessDetector"}
	assert.Contains(t, render(t, &TextWriter{}, r), "Failed tools: PHPMessDetector")
}

func TestProgress_Sequential(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewProgress(&buf, false)
	p.Trigger(analyser.Event{Kind: analyser.EventStartingAnalysis})
	p.Trigger(analyser.Event{Kind: analyser.EventStartingTool, Tool: "PHPCodeSniffer"})
	p.Trigger(analyser.Event{Kind: analyser.EventFinishedTool, Tool: "PHPCodeSniffer"})
	p.Trigger(analyser.Event{Kind: analyser.EventStartingTool, Tool: "PHPMessDetector", Ignored: []string{"vendor", "tests"}})
	p.Trigger(analyser.Event{Kind: analyser.EventFinishedTool, Tool: "PHPMessDetector", Err: errors.New("exit code 1")})
	p.Trigger(analyser.Event{Kind: analyser.EventFinishedAnalysis})

	assert.Equal(t, "Starting analysis\n"+
		"Running PHPCodeSniffer... Done!\n"+
		"Running PHPMessDetector... Ignored paths:\n"+
		"     vendor\n"+
		"     tests\n"+
		"Failed: exit code 1\n"+
		"Analysis complete!\n", buf.String())
}

func TestProgress_Interleaved(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewProgress(&buf, false)
	p.Trigger(analyser.Event{Kind: analyser.EventStartingTool, Tool: "A"})
	p.Trigger(analyser.Event{Kind: analyser.EventStartingTool, Tool: "B"})
	p.Trigger(analyser.Event{Kind: analyser.EventFinishedTool, Tool: "A"})
	p.Trigger(analyser.Event{Kind: analyser.EventFinishedTool, Tool: "B"})

	assert.Equal(t, "Running A... \nRunning B... \nA: Done!\nB: Done!\n", buf.String())
}
