package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/lintgate/internal/gitctx"
	"github.com/dshills/lintgate/internal/integration"
	"github.com/dshills/lintgate/internal/output"
)

const (
	hookMarkerStart = "# >>> lintgate pre-commit hook >>>"
	hookMarkerEnd   = "# <<< lintgate pre-commit hook <<<"
)

func (a *app) hookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage git pre-commit hook",
	}

	var format string
	var tools []string
	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install lintgate as a git pre-commit hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The hook allows commits when lintgate exits 2, so bad values
			// must be rejected here.
			if _, err := output.Lookup(format, output.Options{}); err != nil {
				return err
			}
			if _, err := integration.Lookup(tools); err != nil {
				return err
			}

			hookPath, err := getHookPath(cmd)
			if err != nil {
				a.fail("%v", err)
				return nil
			}

			section := generateHookScript(format, tools)

			existing, err := os.ReadFile(hookPath)
			if err != nil && !os.IsNotExist(err) {
				a.fail("reading hook file: %v", err)
				return nil
			}

			var content string
			if len(existing) == 0 {
				content = "#!/bin/sh\n" + section
			} else {
				content = replaceHookSection(string(existing), section)
			}

			if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
				a.fail("creating hooks directory: %v", err)
				return nil
			}
			if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
				a.fail("writing hook file: %v", err)
				return nil
			}

			fmt.Fprintf(a.stdout, "Installed lintgate pre-commit hook at %s\n", hookPath)
			return nil
		},
	}
	installCmd.Flags().StringVar(&format, "format", "text", "Output format used by the hook")
	installCmd.Flags().StringSliceVar(&tools, "tools", nil, "Tools the hook runs (default: configured tools)")

	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove lintgate pre-commit hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hookPath, err := getHookPath(cmd)
			if err != nil {
				a.fail("%v", err)
				return nil
			}

			existing, err := os.ReadFile(hookPath)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(a.stdout, "No pre-commit hook found.")
					return nil
				}
				a.fail("reading hook file: %v", err)
				return nil
			}

			content := removeHookSection(string(existing))

			// Only the shebang left: delete the file.
			trimmed := strings.TrimSpace(content)
			if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
				if err := os.Remove(hookPath); err != nil {
					a.fail("removing hook file: %v", err)
					return nil
				}
				fmt.Fprintf(a.stdout, "Removed lintgate pre-commit hook at %s\n", hookPath)
				return nil
			}

			if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
				a.fail("writing hook file: %v", err)
				return nil
			}
			fmt.Fprintf(a.stdout, "Removed lintgate section from %s\n", hookPath)
			return nil
		},
	}

	cmd.AddCommand(installCmd, uninstallCmd)
	return cmd
}

func getHookPath(cmd *cobra.Command) (string, error) {
	gitDir, err := gitctx.GitDir(cmd.Context(), ".")
	if err != nil {
		return "", err
	}
	return filepath.Join(gitDir, "hooks", "pre-commit"), nil
}

func generateHookScript(format string, tools []string) string {
	command := "lintgate analyze --staged --format " + format
	if len(tools) > 0 {
		command += " --tools " + strings.Join(tools, ",")
	}

	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	b.WriteString(command + "\n")
	b.WriteString("LINTGATE_EXIT=$?\n")
	b.WriteString("if [ $LINTGATE_EXIT -eq 1 ]; then\n")
	b.WriteString("  echo \"lintgate: issues on staged lines, commit blocked\"\n")
	b.WriteString("  exit 1\n")
	b.WriteString("elif [ $LINTGATE_EXIT -ge 2 ]; then\n")
	b.WriteString("  echo \"lintgate: analysis failed (exit $LINTGATE_EXIT), allowing commit\"\n")
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

func replaceHookSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + section + after
}

func removeHookSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + after
}
