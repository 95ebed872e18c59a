package store

import (
	"errors"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
)

// ErrUserNotFound is returned when a user doesn't exist
var ErrUserNotFound = errors.New("user not found")

// UsersStore abstracts user storage operations
type UsersStore interface {
	// FetchUser retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	FetchUser(id uint) (*model.User, error)

	// FetchUserByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user doesn't exist.
	FetchUserByUsername(username string) (*model.User, error)

	// CreateUser inserts user and sets its ID.
	CreateUser(user *model.User) error

	// ListUsers returns all users ordered by username.
	ListUsers() ([]model.User, error)
}
