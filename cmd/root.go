package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "program-ledger",
	Short: "Web console for the program ledger",
	Long:  "Manage programs, WBS codes and ledger transactions stored in the program ledger backend.",
	RunE:  runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addServeFlags(rootCmd)
}
