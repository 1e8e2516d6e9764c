package result

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Snapshot is the ordered view of a store: files ascending by path, and
// within each file, lines ascending by number.
type Snapshot []FileIssues

// FileIssues groups the reported lines of one file.
type FileIssues struct {
	Path  string
	Lines []LineIssues
}

// LineIssues groups the issues reported at one line, in report order.
type LineIssues struct {
	Line   int
	Issues []Issue
}

// Empty reports whether the snapshot holds no issues at all.
func (s Snapshot) Empty() bool {
	return s.Count() == 0
}

// Count returns the total number of issues.
func (s Snapshot) Count() int {
	n := 0
	for _, f := range s {
		for _, l := range f.Lines {
			n += len(l.Issues)
		}
	}
	return n
}

// CountByTool returns the number of issues per reporting tool.
func (s Snapshot) CountByTool() map[string]int {
	counts := make(map[string]int)
	for _, f := range s {
		for _, l := range f.Lines {
			for _, issue := range l.Issues {
				counts[issue.Tool]++
			}
		}
	}
	return counts
}

// Files returns the file paths in snapshot order.
func (s Snapshot) Files() []string {
	files := make([]string, 0, len(s))
	for _, f := range s {
		files = append(files, f.Path)
	}
	return files
}

// MarshalJSON encodes the snapshot as
//
//	{"<file>": {"<line>": [{"tool": ..., "type": ..., "message": ...}]}}
//
// keeping the snapshot order. Line numbers become string keys.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Path)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(":{")
		for j, l := range f.Lines {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Quote(strconv.Itoa(l.Line)))
			buf.WriteByte(':')
			issues := l.Issues
			if issues == nil {
				issues = []Issue{}
			}
			data, err := json.Marshal(issues)
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
