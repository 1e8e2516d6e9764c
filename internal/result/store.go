package result

import "sort"

// Store accumulates issues by file and line. Buckets are created on first
// use and keep insertion order. A Store is not safe for concurrent
// mutation.
type Store struct {
	data   map[string]map[int][]Issue
	filter Filter
}

// NewStore returns an empty store with the identity filter attached.
func NewStore() *Store {
	return &Store{
		data:   make(map[string]map[int][]Issue),
		filter: Identity,
	}
}

// AddIssue appends an issue to the (file, line) bucket. Nothing is
// deduplicated: repeated reports stay, in call order.
func (s *Store) AddIssue(file string, line int, tool, issueType, message string) {
	if s.data == nil {
		s.data = make(map[string]map[int][]Issue)
	}
	lines, ok := s.data[file]
	if !ok {
		lines = make(map[int][]Issue)
		s.data[file] = lines
	}
	lines[line] = append(lines[line], Issue{
		Tool:    tool,
		Type:    issueType,
		Message: message,
	})
}

// HasIssues reports whether the filtered snapshot is non-empty. A filter
// may reduce a populated store to no issues.
func (s *Store) HasIssues() bool {
	return !s.Snapshot().Empty()
}

// Len returns the number of stored issues before filtering.
func (s *Store) Len() int {
	n := 0
	for _, lines := range s.data {
		for _, issues := range lines {
			n += len(issues)
		}
	}
	return n
}

// Snapshot returns a sorted copy of the store passed through the attached
// filter. The returned value shares no memory with the store.
func (s *Store) Snapshot() Snapshot {
	files := make([]string, 0, len(s.data))
	for file := range s.data {
		files = append(files, file)
	}
	sort.Strings(files)

	snap := make(Snapshot, 0, len(files))
	for _, file := range files {
		lines := s.data[file]
		nums := make([]int, 0, len(lines))
		for n := range lines {
			nums = append(nums, n)
		}
		sort.Ints(nums)

		fi := FileIssues{Path: file, Lines: make([]LineIssues, 0, len(nums))}
		for _, n := range nums {
			issues := make([]Issue, len(lines[n]))
			copy(issues, lines[n])
			fi.Lines = append(fi.Lines, LineIssues{Line: n, Issues: issues})
		}
		snap = append(snap, fi)
	}

	return s.activeFilter().Filter(snap)
}

// MergeWith replays every issue of other's snapshot into s. Because the
// snapshot is used, other's filter applies first. For a (file, line) present
// on both sides, the issues already in s stay in front.
func (s *Store) MergeWith(other *Store) *Store {
	if other == nil {
		return s
	}
	for _, f := range other.Snapshot() {
		for _, l := range f.Lines {
			for _, issue := range l.Issues {
				s.AddIssue(f.Path, l.Line, issue.Tool, issue.Type, issue.Message)
			}
		}
	}
	return s
}

// SetResultsFilter replaces the attached filter. A nil filter restores
// Identity.
func (s *Store) SetResultsFilter(f Filter) {
	if f == nil {
		f = Identity
	}
	s.filter = f
}

func (s *Store) activeFilter() Filter {
	if s.filter == nil {
		return Identity
	}
	return s.filter
}
