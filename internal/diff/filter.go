package diff

import (
	"path/filepath"

	"github.com/dshills/lintgate/internal/result"
)

// Filter restricts a snapshot to the lines a change added. It implements
// result.Filter.
type Filter struct {
	root  string
	added map[string]LineSet
	files []string
}

var _ result.Filter = (*Filter)(nil)

// NewFilter builds a filter for model. root is the absolute repository root
// that diff paths are relative to.
func NewFilter(root string, model *Model) *Filter {
	f := &Filter{
		root:  filepath.Clean(root),
		added: make(map[string]LineSet),
	}
	if model == nil {
		return f
	}
	for _, rel := range model.FilesWithAddedLines() {
		set, _ := model.AddedLines(rel)
		abs := f.normalize(rel)
		f.added[abs] = set
		f.files = append(f.files, abs)
	}
	return f
}

// FilesWithAddedCode returns the absolute paths of the files that gained
// lines in the change.
func (f *Filter) FilesWithAddedCode() []string {
	files := make([]string, len(f.files))
	copy(files, f.files)
	return files
}

// Filter keeps the issues on added lines. Files absent from the change, and
// files left without lines, are dropped. Input order is preserved.
func (f *Filter) Filter(s result.Snapshot) result.Snapshot {
	out := make(result.Snapshot, 0, len(s))
	for _, file := range s {
		set, ok := f.added[f.normalize(file.Path)]
		if !ok {
			continue
		}
		var lines []result.LineIssues
		for _, l := range file.Lines {
			if set.Contains(l.Line) {
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			continue
		}
		out = append(out, result.FileIssues{Path: file.Path, Lines: lines})
	}
	return out
}

func (f *Filter) normalize(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.root, path)
	}
	return filepath.Clean(path)
}
