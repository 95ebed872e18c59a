package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/db"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/zealot-in-go/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Long: `Create a user and print an access token for it.

The ZEALOT_SECRET_KEY must be available in the environment since it's
used to sign the token.

Example:
  zealotctl user create alice
  zealotctl user create admin --role admin --email admin@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		roleName, _ := cmd.Flags().GetString("role")

		token, err := createUser(args[0], email, roleName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created %s '%s'\n", roleName, args[0])
		fmt.Printf("Access token: %s\n", token)
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringP("email", "e", "", "Email address")
	userCreateCmd.Flags().StringP("role", "r", model.RoleUser.String(),
		"Role ("+strings.Join(model.RoleStrings(), ", ")+")")
}

func createUser(username, email, roleName string) (string, error) {
	role, err := model.RoleString(roleName)
	if err != nil {
		return "", fmt.Errorf("unknown role %q", roleName)
	}

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
	users := gormstore.NewUsersStore(database)

	if _, err := users.FetchUserByUsername(username); err == nil {
		return "", fmt.Errorf("user '%s' already exists", username)
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return "", err
	}

	user := &model.User{Username: username, Email: email, Role: role}
	if err := users.CreateUser(user); err != nil {
		return "", err
	}

	return tokens.Issue(user)
}
