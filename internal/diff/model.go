package diff

import "sort"

// LineSet is a set of 1-based line numbers.
type LineSet map[int]struct{}

// Contains reports whether line is in the set.
func (s LineSet) Contains(line int) bool {
	_, ok := s[line]
	return ok
}

// Sorted returns the lines in ascending order.
func (s LineSet) Sorted() []int {
	lines := make([]int, 0, len(s))
	for l := range s {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	return lines
}

// Model holds the added lines of every file touched by a change.
type Model struct {
	added map[string]LineSet
	order []string
}

func newModel() *Model {
	return &Model{added: make(map[string]LineSet)}
}

// add records line as added to path, keeping first-seen file order.
func (m *Model) add(path string, line int) {
	set, ok := m.added[path]
	if !ok {
		set = make(LineSet)
		m.added[path] = set
		m.order = append(m.order, path)
	}
	set[line] = struct{}{}
}

// AddedLines returns the added lines of path. ok is false when the file is
// absent from the change or only had lines removed.
func (m *Model) AddedLines(path string) (LineSet, bool) {
	set, ok := m.added[path]
	if !ok || len(set) == 0 {
		return nil, false
	}
	return set, true
}

// FilesWithAddedLines returns the diff-relative paths that gained at least
// one line, in diff order.
func (m *Model) FilesWithAddedLines() []string {
	files := make([]string, 0, len(m.order))
	for _, path := range m.order {
		if len(m.added[path]) > 0 {
			files = append(files, path)
		}
	}
	return files
}

// Combine merges models into one. Files keep the order they are first seen
// in; added lines of a file present in several models are unioned.
func Combine(models ...*Model) *Model {
	out := newModel()
	for _, m := range models {
		if m == nil {
			continue
		}
		for _, path := range m.order {
			for line := range m.added[path] {
				out.add(path, line)
			}
		}
	}
	return out
}
