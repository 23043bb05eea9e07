package cmd

import (
	"github.com/spf13/cobra"

	"cellrun/process"
)

// initCmd is the hidden subcommand the supervisor re-execs itself as to
// run inside the freshly cloned namespaces. It is never meant to be invoked
// directly by a user.
var initCmd = &cobra.Command{
	Use:    "__init__",
	Hidden: true,
	Args:   cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		process.RunChildInit()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
