package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/lintgate/internal/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lintgate configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)
			if err := config.Init(path, force); err != nil {
				if errors.Is(err, config.ErrExists) {
					fmt.Fprintf(a.stderr, "Config file already exists at %s (use --force to overwrite)\n", path)
					return nil
				}
				return err
			}
			fmt.Fprintf(a.stdout, "Config file created at %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value in the config file. Lists are comma-separated.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Set(configPath(cmd), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath, nil)
			if err != nil {
				return err
			}
			return config.Write(a.stdout, cfg)
		},
	}

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "List the configuration keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range config.Keys() {
				fmt.Fprintln(a.stdout, k)
			}
		},
	}

	cmd.AddCommand(initCmd, setCmd, showCmd, keysCmd)
	return cmd
}

func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.FileName
}
