package analyser

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/dshills/lintgate/internal/integration"
)

// sniffLen is how much of a file is read when its name alone does not
// identify the language.
const sniffLen = 16 << 10

// narrowTargets drops file targets that are vendored or not in one of the
// tool's languages. Directories and missing paths are kept as given. Vendor
// detection looks at the path relative to root when the target is under it.
func narrowTargets(tool integration.Tool, root string, targets []string, logger *slog.Logger) []string {
	out := make([]string, 0, len(targets))
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil || info.IsDir() {
			out = append(out, target)
			continue
		}
		if enry.IsVendor(filepath.ToSlash(relativeTo(root, target))) {
			logger.Debug("skipping vendored file", "tool", tool.Name(), "path", target)
			continue
		}
		if !matchesLanguage(target, tool.Languages()) {
			logger.Debug("skipping file in other language", "tool", tool.Name(), "path", target)
			continue
		}
		out = append(out, target)
	}
	return out
}

func matchesLanguage(path string, languages []string) bool {
	if len(languages) == 0 {
		return true
	}
	want := func(lang string) bool {
		return lang != "" && slices.ContainsFunc(languages, func(l string) bool {
			return strings.EqualFold(l, lang)
		})
	}

	name := filepath.Base(path)
	if want(enry.GetLanguage(name, nil)) {
		return true
	}
	for _, lang := range enry.GetLanguagesByExtension(name, nil, nil) {
		if want(lang) {
			return true
		}
	}
	return want(enry.GetLanguage(name, sniff(path)))
}

func sniff(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	buf, _ := io.ReadAll(io.LimitReader(f, sniffLen))
	return buf
}

func relativeTo(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
