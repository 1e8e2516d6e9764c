package gitctx

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "main..feature", want: Range{Base: "main", Changed: "feature"}},
		{in: "HEAD~3..HEAD", want: Range{Base: "HEAD~3", Changed: "HEAD"}},
		{in: "origin/main...HEAD", want: Range{Base: "origin/main", Changed: "HEAD", MergeBase: true}},
		{in: " a .. b ", want: Range{Base: "a", Changed: "b"}},
		{in: "main", wantErr: true},
		{in: "..HEAD", wantErr: true},
		{in: "HEAD..", wantErr: true},
		{in: "a..b..c", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if tt.wantErr {
			require.Error(t, err, "ParseRange(%q)", tt.in)
			assert.True(t, errors.Is(err, ErrInvalidRange))
			continue
		}
		require.NoError(t, err, "ParseRange(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRange_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a..b", Range{Base: "a", Changed: "b"}.String())
	assert.Equal(t, "a...b", Range{Base: "a", Changed: "b", MergeBase: true}.String())
	assert.Equal(t, []string{"a", "b", "--"}, Range{Base: "a", Changed: "b"}.rangeArgs())
	assert.Equal(t, []string{"a...b", "--"}, Range{Base: "a", Changed: "b", MergeBase: true}.rangeArgs())
}

func TestDiffArgs_NoContextLines(t *testing.T) {
	t.Parallel()

	args := diffArgs()
	assert.Equal(t, "diff", args[0])
	assert.Contains(t, args, "-U0")
	assert.Contains(t, args, "--no-color")
	assert.Contains(t, args, "--dst-prefix=b/")
}

func TestMatchesAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"main.php", []string{"*.php"}, true},
		{"src/main.php", []string{"**/*.php"}, true},
		{"vendor/lib/a.php", []string{"vendor/**"}, true},
		{"vendor", []string{"vendor/**"}, true},
		{"vendored/a.php", []string{"vendor/**"}, false},
		{"main.go", []string{"*.php"}, false},
		{"main.php", nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesAny(tt.path, tt.patterns), "MatchesAny(%q, %v)", tt.path, tt.patterns)
	}
}

func setupTestRepo(t *testing.T) (string, func(args ...string)) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=test",
			"GIT_COMMITTER_EMAIL=test@test.com",
			"GIT_CONFIG_NOSYSTEM=1",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v\n%s", args, out)
	}

	run("init")
	run("checkout", "-b", "main")
	writeFile(t, dir, "a.php", "<?php\n$a = 1;\n")
	run("add", "-A")
	run("-c", "commit.gpgsign=false", "commit", "-m", "init")

	return dir, run
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRepoRoot(t *testing.T) {
	dir, _ := setupTestRepo(t)
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, err := RepoRoot(context.Background(), sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	gitDir, err := GitDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, ".git", filepath.Base(gitDir))
}

func TestRepoRoot_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := RepoRoot(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git repository")
}

func TestRangeDiff(t *testing.T) {
	dir, run := setupTestRepo(t)
	run("checkout", "-b", "feature")
	writeFile(t, dir, "a.php", "<?php\n$a = 1;\n$b = 2;\n")
	writeFile(t, dir, "src/new.php", "<?php\n")
	run("add", "-A")
	run("-c", "commit.gpgsign=false", "commit", "-m", "change")

	for _, rev := range []string{"main..feature", "main...feature"} {
		r, err := ParseRange(rev)
		require.NoError(t, err)

		out, err := RangeDiff(context.Background(), dir, r)
		require.NoError(t, err, rev)
		assert.Contains(t, out, "+++ b/a.php")
		assert.Contains(t, out, "+++ b/src/new.php")
		assert.Contains(t, out, "@@ -2,0 +3 @@")
		assert.Contains(t, out, "\n+$b = 2;\n")
		assert.NotContains(t, out, "\n $a = 1;", "no context lines")
	}
}

func TestRangeDiff_UnknownRevision(t *testing.T) {
	dir, _ := setupTestRepo(t)

	_, err := RangeDiff(context.Background(), dir, Range{Base: "main", Changed: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main..nope")
}

func TestStagedDiff(t *testing.T) {
	dir, run := setupTestRepo(t)
	writeFile(t, dir, "a.php", "<?php\n$a = 2;\n")
	writeFile(t, dir, "unstaged.php", "<?php\n")
	run("add", "a.php")

	out, err := StagedDiff(context.Background(), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "+++ b/a.php")
	assert.True(t, strings.Contains(out, "+$a = 2;"))
	assert.NotContains(t, out, "unstaged.php")
}

func TestUnstagedFiles(t *testing.T) {
	dir, run := setupTestRepo(t)
	writeFile(t, dir, "b.php", "<?php\n")
	run("add", "b.php")

	files, err := UnstagedFiles(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, files, "staged and untracked files are not unstaged")

	writeFile(t, dir, "a.php", "<?php\n$a = 2;\n")
	files, err = UnstagedFiles(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.php")}, files)
}
