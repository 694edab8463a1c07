package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the progy configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to .progy.yaml in the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		workdir, err := resolveWorkdir(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		path, err := config.WriteDefault(workdir, force)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}
