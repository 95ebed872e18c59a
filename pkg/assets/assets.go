package assets

import (
	"context"
	"fmt"
	"os"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/config"
)

// Store holds the uploaded binaries and icons of apps
type Store interface {
	// Location describes where the assets of an app live, for logging.
	Location(appID uint) string

	// RemoveApp deletes every asset of an app. Removing the assets of an
	// app that has none is not an error.
	RemoveApp(ctx context.Context, appID uint) error
}

// AppDir returns the directory name holding the assets of an app,
// relative to the uploads root.
func AppDir(appID uint) string {
	return fmt.Sprintf("apps/a%d", appID)
}

// New creates the Store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.ZealotConfig) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal, "":
		return NewLocalStore(cfg.UploadsRoot), nil
	case config.StorageS3:
		return NewS3Store(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     os.Getenv("ZEALOT_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("ZEALOT_S3_SECRET_ACCESS_KEY"),
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
