package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/db"
	gormstore "github.com/doodlesbykumbi/zealot-in-go/pkg/server/store/gorm"
)

// userTokenCmd represents the user token command
var userTokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Issue a fresh access token for a user",
	Long: `Issue a fresh access token for an existing user.

Example:
  zealotctl user token alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		token, err := issueToken(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	userCmd.AddCommand(userTokenCmd)
}

func issueToken(username string) (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	tokens, err := newTokenIssuer(cfg)
	if err != nil {
		return "", err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}

	user, err := gormstore.NewUsersStore(database).FetchUserByUsername(username)
	if err != nil {
		return "", fmt.Errorf("user '%s': %w", username, err)
	}
	return tokens.Issue(user)
}
