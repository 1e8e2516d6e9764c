package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// FromContents diffs two versions of the file at path line by line and
// returns a model whose only file is path. Lines present in after but not
// in before count as added.
func FromContents(path, before, after string) *Model {
	m := newModel()

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	next := 1
	for _, d := range diffs {
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			for i := 0; i < n; i++ {
				m.add(path, next+i)
			}
			next += n
		case diffmatchpatch.DiffEqual:
			next += n
		case diffmatchpatch.DiffDelete:
		}
	}

	return m
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
