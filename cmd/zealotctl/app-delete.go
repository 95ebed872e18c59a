package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/assets"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/audit"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/db"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/zealot-in-go/pkg/server/store/gorm"
)

// appDeleteCmd represents the app delete command
var appDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an app and its uploaded files",
	Long: `Delete an app with its schemes and channels, then remove its
uploaded binaries and icons from the configured storage.

Example:
  zealotctl app delete 42`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := model.ParseID(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid app id: %s\n", args[0])
			os.Exit(1)
		}

		if err := deleteApp(cmd.Context(), id); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete app: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Deleted app %d\n", id)
	},
}

func init() {
	appCmd.AddCommand(appDeleteCmd)
}

func deleteApp(ctx context.Context, id uint) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	assetStore, err := assets.New(ctx, cfg)
	if err != nil {
		return err
	}

	apps := gormstore.NewAppsStore(database)
	app, err := apps.FetchApp(id)
	if err != nil {
		return err
	}

	event := audit.AppEvent{
		UserID:    "zealotctl",
		ClientIP:  "127.0.0.1",
		AppID:     app.ID,
		AppName:   app.Name,
		Operation: audit.OperationDestroy,
		Success:   true,
	}

	err = apps.DeleteApp(id)
	if err == nil {
		err = endpoints.DestroyAppData(ctx, assetStore, id)
	}
	if err != nil {
		event.Success = false
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
	return err
}
