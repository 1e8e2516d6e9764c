// Lintgate runs PHP static analysis tools and gates on their issues.
//
// It runs PHPCodeSniffer, PHPCopyPasteDetector and PHPMessDetector in
// parallel, merges their issues per file and line, and can restrict the
// report to lines added by a change, emitting deterministic exit codes
// suitable for CI gating and git hooks.
//
// Usage:
//
//	lintgate analyze                        # analyse the configured paths
//	lintgate analyze src --format html -o report.html
//	lintgate analyze --git-diff main..HEAD  # only lines added since main
//	lintgate analyze --staged               # only lines added in the index
//	lintgate analyze --baseline ../old      # only lines added since a copy
//	lintgate hook install                   # gate commits on staged issues
package main
