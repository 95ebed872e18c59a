package main

import (
	"github.com/spf13/cobra"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  `Manage Zealot users and their access tokens.`,
	Run:   requiresSubcommand("create, token, list"),
}

func init() {
	rootCmd.AddCommand(userCmd)
}
