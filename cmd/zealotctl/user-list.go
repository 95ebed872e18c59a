package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/db"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	gormstore "github.com/doodlesbykumbi/zealot-in-go/pkg/server/store/gorm"
)

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		users, err := gormstore.NewUsersStore(database).ListUsers()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list users: %v\n", err)
			os.Exit(1)
		}
		printUsers(os.Stdout, users)
	},
}

func init() {
	userCmd.AddCommand(userListCmd)
}

func printUsers(out io.Writer, users []model.User) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tEMAIL")
	for _, u := range users {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.Email)
	}
	_ = w.Flush()
}
