package cmd

import (
	"github.com/spf13/cobra"

	"pipesh/core"
)

// runCmd starts the interactive shell.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive session.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		sh, err := core.NewShell(configuration)
		if err != nil {
			return err
		}
		defer sh.Close()

		return sh.Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	// Invoking the binary bare starts a session, like any login shell.
	rootCmd.RunE = runCmd.RunE
}
