package cli

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dshills/lintgate/internal/integration"
)

func (a *app) toolsCmd() *cobra.Command {
	var binPath string
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the supported tools and whether their binaries are found",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runner := &integration.Runner{BinPath: binPath}

			t := table.NewWriter()
			t.SetOutputMirror(a.stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Tool", "Languages", "Binary"})
			for _, tool := range integration.All() {
				t.AppendRow(table.Row{
					tool.Name(),
					tool.Description(),
					strings.Join(tool.Languages(), ", "),
					binaryStatus(runner.Command(tool)),
				})
			}
			t.Render()
		},
	}
	cmd.Flags().StringVar(&binPath, "bin-path", "", "Directory holding the tool binaries (default: $PATH)")
	return cmd
}

func binaryStatus(bin string) string {
	path, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Sprintf("%s (not found)", bin)
	}
	return path
}
