package cmd

import (
	"fmt"

	"github.com/program-ledger/console/internal/router"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the console",
	Run: func(c *cobra.Command, _ []string) {
		fmt.Fprintln(c.OutOrStdout(), router.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
