package gorm

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
)

// Ensure AppsStore implements store.AppsStore
var _ store.AppsStore = (*AppsStore)(nil)

// AppsStore implements store.AppsStore using GORM
type AppsStore struct {
	db *gorm.DB
}

// NewAppsStore creates a new AppsStore
func NewAppsStore(db *gorm.DB) *AppsStore {
	return &AppsStore{db: db}
}

// ListApps returns every app with its schemes and channels.
func (s *AppsStore) ListApps() ([]model.App, error) {
	var apps []model.App
	if err := s.db.Preload("Schemes.Channels").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// FetchApp retrieves an app with its schemes, channels and members.
func (s *AppsStore) FetchApp(id uint) (*model.App, error) {
	var app model.App
	tx := s.db.Preload("Schemes.Channels").Preload("Users").First(&app, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrAppNotFound
		}
		return nil, tx.Error
	}
	return &app, nil
}

// CreateApp inserts app and sets its ID.
func (s *AppsStore) CreateApp(app *model.App) error {
	return s.db.Omit(clause.Associations).Create(app).Error
}

// UpdateApp writes the name of an existing app.
func (s *AppsStore) UpdateApp(app *model.App) error {
	tx := s.db.Model(app).Omit(clause.Associations).Select("name", "updated_at").Updates(app)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrAppNotFound
	}
	return nil
}

// DeleteApp deletes an app. Dependent rows are removed by the database.
func (s *AppsStore) DeleteApp(id uint) error {
	tx := s.db.Delete(&model.App{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrAppNotFound
	}
	return nil
}

// AddMember makes a user a member of an app.
func (s *AppsStore) AddMember(appID, userID uint) error {
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Membership{AppID: appID, UserID: userID}).Error
}

// CreateScheme creates a scheme under an app.
func (s *AppsStore) CreateScheme(appID uint, name string) (*model.Scheme, error) {
	scheme := &model.Scheme{AppID: appID, Name: name}
	if err := s.db.Omit(clause.Associations).Create(scheme).Error; err != nil {
		return nil, err
	}
	return scheme, nil
}

// CreateChannel creates a channel under a scheme.
func (s *AppsStore) CreateChannel(schemeID uint, name string, deviceType model.DeviceType) (*model.Channel, error) {
	channel := &model.Channel{SchemeID: schemeID, Name: name, DeviceType: deviceType}
	if err := s.db.Create(channel).Error; err != nil {
		return nil, err
	}
	return channel, nil
}

// Transaction runs fn inside a database transaction.
func (s *AppsStore) Transaction(fn func(store.AppsStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewAppsStore(tx))
	})
}
