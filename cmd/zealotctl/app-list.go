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

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List apps with their schemes and channels",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		apps, err := gormstore.NewAppsStore(database).ListApps()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list apps: %v\n", err)
			os.Exit(1)
		}
		printApps(os.Stdout, apps)
	},
}

func init() {
	appCmd.AddCommand(appListCmd)
}

func printApps(out io.Writer, apps []model.App) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSCHEME\tCHANNELS")
	for _, app := range apps {
		if len(app.Schemes) == 0 {
			_, _ = fmt.Fprintf(w, "%d\t%s\t-\t-\n", app.ID, app.Name)
			continue
		}
		for _, scheme := range app.Schemes {
			channels := "-"
			for i, ch := range scheme.Channels {
				if i == 0 {
					channels = ch.Name
				} else {
					channels += ", " + ch.Name
				}
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", app.ID, app.Name, scheme.Name, channels)
		}
	}
	_ = w.Flush()
}
