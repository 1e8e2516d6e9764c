// Package gitctx locates repositories and extracts diffs from them by shelling
// out to git.
//
// Diffs are always produced without context lines and with fixed a/ and b/
// prefixes so that the output is stable regardless of user configuration.
// [ParseRange] accepts "base..changed" and the merge-base form
// "base...changed".
package gitctx
