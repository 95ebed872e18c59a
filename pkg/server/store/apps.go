package store

import (
	"errors"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
)

// ErrAppNotFound is returned when an app doesn't exist
var ErrAppNotFound = errors.New("app not found")

// AppsStore abstracts app, scheme and channel storage operations
type AppsStore interface {
	// ListApps returns every app with its schemes and channels.
	ListApps() ([]model.App, error)

	// FetchApp retrieves an app with its schemes, channels and members.
	// Returns ErrAppNotFound if the app doesn't exist.
	FetchApp(id uint) (*model.App, error)

	// CreateApp inserts app and sets its ID. Nested schemes and members
	// are not written. Returns a *model.ValidationError if the app is invalid.
	CreateApp(app *model.App) error

	// UpdateApp writes the name of an existing app. It never inserts;
	// returns ErrAppNotFound if the app no longer exists.
	UpdateApp(app *model.App) error

	// DeleteApp deletes an app; its schemes, channels and memberships go with it.
	// Returns ErrAppNotFound if the app doesn't exist.
	DeleteApp(id uint) error

	// AddMember makes a user a member of an app. Adding an existing member is a no-op.
	AddMember(appID, userID uint) error

	// CreateScheme creates a scheme under an app.
	CreateScheme(appID uint, name string) (*model.Scheme, error)

	// CreateChannel creates a channel under a scheme.
	CreateChannel(schemeID uint, name string, deviceType model.DeviceType) (*model.Channel, error)

	// Transaction runs fn with a store whose writes commit together, or
	// not at all when fn returns an error.
	Transaction(fn func(AppsStore) error) error
}
