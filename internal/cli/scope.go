package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/dshills/lintgate/internal/config"
	"github.com/dshills/lintgate/internal/diff"
	"github.com/dshills/lintgate/internal/gitctx"
	"github.com/dshills/lintgate/internal/result"
)

// Scope names for whole-tree and index analysis.
const (
	scopeAll    = "all"
	scopeStaged = "staged"
)

// maxBaselineFile bounds the files compared in baseline mode.
const maxBaselineFile = 4 << 20

// scope is what one analysis covers.
type scope struct {
	// name is "all", "staged", the revision range or "baseline:<dir>".
	name string
	// root is the directory issue paths are resolved and shown against.
	root    string
	targets []string
	filter  result.Filter
}

func resolveScope(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*scope, error) {
	paths, err := absPaths(cfg.Paths)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.GitDiff != "":
		rng, err := gitctx.ParseRange(cfg.GitDiff)
		if err != nil {
			return nil, err
		}
		root, err := gitctx.RepoRoot(ctx, searchDir(paths[0]))
		if err != nil {
			return nil, err
		}
		text, err := gitctx.RangeDiff(ctx, root, rng)
		if err != nil {
			return nil, err
		}
		return diffScope(rng.String(), root, text, paths, cfg.Ignore, logger)

	case cfg.Staged:
		root, err := gitctx.RepoRoot(ctx, searchDir(paths[0]))
		if err != nil {
			return nil, err
		}
		text, err := gitctx.StagedDiff(ctx, root)
		if err != nil {
			return nil, err
		}
		sc, err := diffScope(scopeStaged, root, text, paths, cfg.Ignore, logger)
		if err != nil {
			return nil, err
		}
		warnUnstaged(ctx, root, sc.targets, logger)
		return sc, nil

	case cfg.Baseline != "":
		return baselineScope(cfg.Baseline, paths, cfg.Ignore, logger)
	}

	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &scope{name: scopeAll, root: root, targets: paths, filter: result.Identity}, nil
}

// diffScope builds a scope from a unified diff whose paths are relative to
// root. Targets are the files with added lines that lie within paths, are
// not ignored and exist on disk.
func diffScope(name, root, text string, paths, ignore []string, logger *slog.Logger) (*scope, error) {
	model, err := diff.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}
	for _, rel := range model.FilesWithAddedLines() {
		set, _ := model.AddedLines(rel)
		logger.Debug("added lines", "path", rel, "lines", set.Sorted())
	}
	f := diff.NewFilter(root, model)

	var targets []string
	for _, file := range within(f.FilesWithAddedCode(), resolveLinks(paths)) {
		if rel, ok := inside(root, file); ok && ignored(rel, ignore) {
			logger.Debug("skipping ignored changed file", "path", file)
			continue
		}
		targets = append(targets, file)
	}
	return &scope{
		name:    name,
		root:    root,
		targets: existing(targets, logger),
		filter:  f,
	}, nil
}

// warnUnstaged flags targets with unstaged edits. Added lines come from the
// index while the tools read the working tree, so their issues may land on
// the wrong lines.
func warnUnstaged(ctx context.Context, root string, targets []string, logger *slog.Logger) []string {
	unstaged, err := gitctx.UnstagedFiles(ctx, root)
	if err != nil {
		logger.Debug("could not list unstaged files", "err", err)
		return nil
	}
	var flagged []string
	for _, t := range targets {
		if slices.Contains(unstaged, t) {
			logger.Warn("file has unstaged changes; issue lines may not match the index", "path", t)
			flagged = append(flagged, t)
		}
	}
	return flagged
}

// baselineScope compares the files under paths with their copies under
// baseline. The working directory is the root both trees mirror. Files
// missing from baseline count as entirely added.
func baselineScope(baseline string, paths, ignore []string, logger *slog.Logger) (*scope, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	baseline, err = filepath.Abs(baseline)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(baseline); err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("baseline: %s is not a directory", baseline)
	}

	var models []*diff.Model
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, ok := inside(root, path)
			if !ok {
				logger.Warn("skipping path outside the working directory", "path", path)
				return skipEntry(d)
			}
			if d.IsDir() {
				if path != p && (path == baseline || skipDir(rel, d.Name(), ignore)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || enry.IsVendor(filepath.ToSlash(rel)) {
				return nil
			}
			m, err := compareWithBaseline(baseline, root, rel, logger)
			if err != nil {
				return err
			}
			if m != nil {
				models = append(models, m)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("baseline: %w", err)
		}
	}

	f := diff.NewFilter(root, diff.Combine(models...))
	return &scope{
		name:    "baseline:" + baseline,
		root:    root,
		targets: f.FilesWithAddedCode(),
		filter:  f,
	}, nil
}

func compareWithBaseline(baseline, root, rel string, logger *slog.Logger) (*diff.Model, error) {
	after, err := readText(filepath.Join(root, rel))
	if err != nil || after == nil {
		return nil, err
	}
	before, err := readText(filepath.Join(baseline, rel))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Debug("file not in baseline", "path", rel)
	}
	return diff.FromContents(rel, string(before), string(after)), nil
}

// readText returns the content of a text file. Binary and oversized files
// yield nil.
func readText(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxBaselineFile {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if enry.IsBinary(data) {
		return nil, nil
	}
	return data, nil
}

func skipDir(rel, name string, ignore []string) bool {
	return name == ".git" || ignored(rel, ignore)
}

// ignored reports whether rel, relative to the root, falls under one of the
// ignore entries. Entries are directory names, relative paths or globs.
func ignored(rel string, ignore []string) bool {
	rel = filepath.ToSlash(rel)
	if gitctx.MatchesAny(rel, ignore) {
		return true
	}
	for _, ig := range ignore {
		ig = strings.Trim(filepath.ToSlash(ig), "/")
		if ig == "" {
			continue
		}
		if strings.HasPrefix(rel, ig+"/") || strings.Contains("/"+rel+"/", "/"+ig+"/") {
			return true
		}
	}
	return false
}

func skipEntry(d fs.DirEntry) error {
	if d.IsDir() {
		return filepath.SkipDir
	}
	return nil
}

func absPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

// searchDir is the directory git commands run in for path.
func searchDir(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}

// inside returns path relative to root when it lies at or beneath root.
func inside(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// within keeps the files that are one of paths or lie beneath one of them.
func within(files, paths []string) []string {
	var out []string
	for _, f := range files {
		if slices.ContainsFunc(paths, func(p string) bool {
			_, ok := inside(p, f)
			return ok
		}) {
			out = append(out, f)
		}
	}
	return out
}

// resolveLinks evaluates symlinks so paths compare equal to the repository
// root git reports.
func resolveLinks(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p
		if real, err := filepath.EvalSymlinks(p); err == nil {
			out[i] = real
		}
	}
	return out
}

func existing(files []string, logger *slog.Logger) []string {
	var out []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			logger.Debug("skipping changed file missing on disk", "path", f, "err", err)
			continue
		}
		out = append(out, f)
	}
	return out
}
