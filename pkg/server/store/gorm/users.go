package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

func (s *UsersStore) fetch(query interface{}, args ...interface{}) (*model.User, error) {
	var user model.User
	tx := s.db.Where(query, args...).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// FetchUser retrieves a user by ID.
func (s *UsersStore) FetchUser(id uint) (*model.User, error) {
	return s.fetch("id = ?", id)
}

// FetchUserByUsername retrieves a user by username.
func (s *UsersStore) FetchUserByUsername(username string) (*model.User, error) {
	return s.fetch("username = ?", username)
}

// CreateUser inserts user and sets its ID.
func (s *UsersStore) CreateUser(user *model.User) error {
	return s.db.Create(user).Error
}

// ListUsers returns all users ordered by username.
func (s *UsersStore) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := s.db.Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
