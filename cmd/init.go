package cmd

import (
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pipesh/core/config"
)

// initCmd writes a default configuration directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the shell configuration.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)
		return config.Initialize(afero.NewOsFs(), cfgPath, logger)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
