package diff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedHunk is returned when a hunk header cannot be parsed.
var ErrMalformedHunk = errors.New("malformed hunk header")

const devNull = "/dev/null"

var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// hunk tracks the remaining body of the hunk being read.
type hunk struct {
	oldLeft int
	newLeft int
	next    int
}

func (h *hunk) open() bool {
	return h.oldLeft > 0 || h.newLeft > 0
}

// Parse reads a unified diff in git format and returns the added lines of
// every file. Line counts from hunk headers bound each hunk, so content
// lines that look like file headers are read as content.
func Parse(r io.Reader) (*Model, error) {
	m := newModel()
	br := bufio.NewReader(r)

	var (
		path   string
		h      hunk
		lineNo int
	)

	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("reading diff: %w", readErr)
		}
		if raw == "" && readErr == io.EOF {
			break
		}
		lineNo++
		line := strings.TrimRight(raw, "\r\n")

		if h.open() && consumeHunkLine(m, &h, path, line) {
			if readErr == io.EOF {
				break
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "diff --git "):
			path = ""
			h = hunk{}
		case strings.HasPrefix(line, "+++ "):
			path = newPath(line[len("+++ "):])
		case strings.HasPrefix(line, "@@"):
			parsed, err := parseHunkHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			h = parsed
		}

		if readErr == io.EOF {
			break
		}
	}

	return m, nil
}

// consumeHunkLine applies one body line of an open hunk. It returns false
// when the line does not belong to the hunk body.
func consumeHunkLine(m *Model, h *hunk, path, line string) bool {
	if line == "" {
		// Some tools strip the leading space of empty context lines.
		h.next++
		h.oldLeft--
		h.newLeft--
		return true
	}

	switch line[0] {
	case '+':
		if path != "" {
			m.add(path, h.next)
		}
		h.next++
		h.newLeft--
	case '-':
		h.oldLeft--
	case ' ':
		h.next++
		h.oldLeft--
		h.newLeft--
	case '\\':
		// "\ No newline at end of file"
	default:
		*h = hunk{}
		return false
	}
	return true
}

func parseHunkHeader(line string) (hunk, error) {
	match := hunkHeader.FindStringSubmatch(line)
	if match == nil {
		return hunk{}, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
	}

	oldCount, err := hunkCount(match[2])
	if err != nil {
		return hunk{}, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
	}
	newStart, err := strconv.Atoi(match[3])
	if err != nil {
		return hunk{}, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
	}
	newCount, err := hunkCount(match[4])
	if err != nil {
		return hunk{}, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
	}

	return hunk{oldLeft: oldCount, newLeft: newCount, next: newStart}, nil
}

// hunkCount parses an optional hunk line count. An omitted count is 1.
func hunkCount(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	return strconv.Atoi(s)
}

// newPath extracts the path from the value of a "+++ " header. It returns ""
// for deleted files.
func newPath(value string) string {
	if i := strings.IndexByte(value, '\t'); i >= 0 {
		value = value[:i]
	}
	if strings.HasPrefix(value, `"`) {
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
	}
	if value == devNull {
		return ""
	}
	return strings.TrimPrefix(value, "b/")
}
