package main

import (
	"github.com/spf13/cobra"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Manage Zealot configuration",
	Long:  `Manage Zealot configuration settings.`,
	Run:   requiresSubcommand("show"),
}

func init() {
	rootCmd.AddCommand(configurationCmd)
}
