package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lintgate/internal/result"
)

func sampleReport() *Report {
	s := result.NewStore()
	s.AddIssue("/repo/src/B.php", 12, "PHPMessDetector", "UnusedLocalVariable", "Avoid unused local variables such as '$tmp'.")
	s.AddIssue("/repo/src/A.php", 3, "PHPCodeSniffer", "PSR2.Methods.FunctionCallSignature", "  Expected 0 spaces | got 1  ")
	s.AddIssue("/repo/src/A.php", 3, "PHPCopyPasteDetector", "duplication", "Duplicated code")
	s.AddIssue("/repo/src/A.php", 40, "PHPCodeSniffer", "Generic.Files.LineLength.TooLong", "Line exceeds 120 characters")
	return &Report{
		Tool:     "lintgate",
		Version:  "1.0.0",
		Root:     "/repo",
		Scope:    "main..feature",
		Tools:    []string{"PHPCodeSniffer", "PHPCopyPasteDetector", "PHPMessDetector"},
		Duration: 1500 * time.Millisecond,
		Issues:   s.Snapshot(),
	}
}

func emptyReport() *Report {
	return &Report{
		Tool:    "lintgate",
		Version: "1.0.0",
		Root:    "/repo",
		Scope:   "all",
		Tools:   []string{"PHPCodeSniffer"},
		Issues:  result.NewStore().Snapshot(),
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, format := range Formats() {
		w, err := Lookup(format, Options{})
		require.NoError(t, err, format)
		assert.NotNil(t, w)
	}

	w, err := Lookup("TEXT", Options{Color: true})
	require.NoError(t, err)
	assert.True(t, w.(*TextWriter).Color)

	_, err = Lookup("pdf", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Contains(t, err.Error(), "markdown")
}

func TestFormats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"csv", "html", "json", "markdown", "sarif", "text", "xml", "yaml"}, Formats())
}

func TestWriteReport_File(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(sampleReport(), &JSONWriter{}, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"/repo/src/A.php"`)
}

func TestWriteReport_BadPath(t *testing.T) {
	t.Parallel()

	err := WriteReport(sampleReport(), &JSONWriter{}, filepath.Join(t.TempDir(), "missing", "r.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output file")
}

func TestDisplayPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src/A.php", displayPath("/repo", "/repo/src/A.php"))
	assert.Equal(t, "/other/A.php", displayPath("/repo", "/other/A.php"))
	assert.Equal(t, "src/A.php", displayPath("/repo", "src/A.php"))
	assert.Equal(t, "/repo/src/A.php", displayPath("", "/repo/src/A.php"))
}

func TestToolCounts(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Tools = []string{"PHPMessDetector", "PHPCodeSniffer"}
	assert.Equal(t, []toolCount{
		{Tool: "PHPMessDetector", Count: 1},
		{Tool: "PHPCodeSniffer", Count: 2},
		{Tool: "PHPCopyPasteDetector", Count: 1},
	}, toolCounts(r))
}

func TestErrWriter_StopsAfterError(t *testing.T) {
	t.Parallel()

	fw := &failWriter{}
	ew := &errWriter{w: fw}
	ew.println("one")
	ew.printf("%s\n", "two")
	require.Error(t, ew.err)
	assert.Equal(t, 1, fw.calls)
}

type failWriter struct{ calls int }

func (f *failWriter) Write([]byte) (int, error) {
	f.calls++
	return 0, errors.New("disk full")
}

func render(t *testing.T, w Writer, r *Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, r))
	return buf.String()
}
