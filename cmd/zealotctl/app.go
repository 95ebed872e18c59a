package main

import (
	"github.com/spf13/cobra"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Manage apps",
	Long:  `Inspect and remove apps without going through the web interface.`,
	Run:   requiresSubcommand("list, delete"),
}

func init() {
	rootCmd.AddCommand(appCmd)
}
