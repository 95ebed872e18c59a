package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/authn"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/config"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "zealotctl",
	Short: "Zealot mobile app distribution server",
	Long: `Zealot hosts mobile app builds for internal distribution.

zealotctl runs the server and manages its database, users and apps.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// loadConfig reloads the global configuration, validates it and sets up
// logging at the configured level.
func loadConfig() (*config.ZealotConfig, error) {
	if err := config.Reload(); err != nil {
		return nil, err
	}
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newTokenIssuer(cfg *config.ZealotConfig) (*authn.TokenIssuer, error) {
	secret, ok := os.LookupEnv("ZEALOT_SECRET_KEY")
	if !ok || secret == "" {
		return nil, fmt.Errorf("ZEALOT_SECRET_KEY environment variable is required")
	}
	return authn.NewTokenIssuer([]byte(secret), cfg.TokenLifetime())
}

// requiresSubcommand is the Run of command groups invoked without a subcommand.
func requiresSubcommand(subcommands string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		fmt.Printf("error: Command '%s' requires a subcommand (%s)\n", cmd.Name(), subcommands)
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	}
}
