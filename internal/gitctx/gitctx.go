package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrInvalidRange is returned for revision ranges that are not of the form
// "base..changed" or "base...changed".
var ErrInvalidRange = errors.New("invalid revision range")

// Range is a parsed revision range.
type Range struct {
	Base      string
	Changed   string
	MergeBase bool
}

// String returns the range in git notation.
func (r Range) String() string {
	if r.MergeBase {
		return r.Base + "..." + r.Changed
	}
	return r.Base + ".." + r.Changed
}

// ParseRange splits "base..changed". Three dots compare against the merge
// base of the two revisions.
func ParseRange(revRange string) (Range, error) {
	sep := ".."
	mergeBase := false
	if strings.Contains(revRange, "...") {
		sep = "..."
		mergeBase = true
	}
	base, changed, ok := strings.Cut(revRange, sep)
	base = strings.TrimSpace(base)
	changed = strings.TrimSpace(changed)
	if !ok || base == "" || changed == "" || strings.Contains(changed, "..") {
		return Range{}, fmt.Errorf("%w: %q (want base..changed)", ErrInvalidRange, revRange)
	}
	return Range{Base: base, Changed: changed, MergeBase: mergeBase}, nil
}

// RepoRoot returns the absolute top-level directory of the repository that
// contains dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return filepath.Clean(strings.TrimSpace(out)), nil
}

// GitDir returns the absolute .git directory of the repository at dir.
func GitDir(ctx context.Context, dir string) (string, error) {
	out, err := gitOutput(ctx, dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// RangeDiff returns the unified diff between the two sides of r, without
// context lines.
func RangeDiff(ctx context.Context, dir string, r Range) (string, error) {
	args := append(diffArgs(), r.rangeArgs()...)
	diff, err := gitOutput(ctx, dir, args...)
	if err != nil {
		return "", fmt.Errorf("git diff %s: %w", r, err)
	}
	return diff, nil
}

// StagedDiff returns the unified diff of the index against HEAD.
func StagedDiff(ctx context.Context, dir string) (string, error) {
	args := append(diffArgs(), "--cached")
	diff, err := gitOutput(ctx, dir, args...)
	if err != nil {
		return "", fmt.Errorf("git diff --cached: %w", err)
	}
	return diff, nil
}

// UnstagedFiles returns the absolute paths of files whose working-tree
// content differs from the index.
func UnstagedFiles(ctx context.Context, root string) ([]string, error) {
	out, err := gitOutput(ctx, root, "diff", "--no-ext-diff", "--name-only", "-z")
	if err != nil {
		return nil, fmt.Errorf("git diff --name-only: %w", err)
	}
	var files []string
	for _, name := range strings.Split(out, "\x00") {
		if name != "" {
			files = append(files, filepath.Join(root, filepath.FromSlash(name)))
		}
	}
	return files, nil
}

func (r Range) rangeArgs() []string {
	if r.MergeBase {
		return []string{r.String(), "--"}
	}
	return []string{r.Base, r.Changed, "--"}
}

// diffArgs pins the output format regardless of user configuration.
func diffArgs() []string {
	return []string{
		"diff",
		"--no-color",
		"--no-ext-diff",
		"--src-prefix=a/",
		"--dst-prefix=b/",
		"-U0",
	}
}

// MatchesAny returns true if the path matches any of the given glob patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
		if dir := strings.TrimSuffix(pattern, "/**"); dir != pattern {
			if path == dir || strings.HasPrefix(path, dir+"/") {
				return true
			}
		}
	}
	return false
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
