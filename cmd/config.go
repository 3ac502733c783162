package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellarsig/msig/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the msig configuration file",
	}

	configCmd.AddCommand(newConfigInitCmd())

	return configCmd
}

func newConfigInitCmd() *cobra.Command {
	var path string

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.toml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := path
			if target == "" {
				var err error
				target, err = config.DefaultPath()
				if err != nil {
					return err
				}
			}

			if err := config.WriteDefault(target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	initCmd.Flags().StringVar(&path, "path", "", "where to write the file (default: user config dir)")

	return initCmd
}
