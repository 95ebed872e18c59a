package model

import (
	"time"

	"gorm.io/gorm"
)

// App is a mobile application tracked by Zealot
type App struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name" validate:"notblank,max=255"`
	Schemes   []Scheme  `gorm:"foreignKey:AppID" json:"schemes"`
	Users     []User    `gorm:"many2many:apps_users" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Channel is the platform choice submitted with the form; it is never stored.
	Channel string `gorm:"-" json:"-"`
}

func (App) TableName() string {
	return "apps"
}

func (a *App) BeforeSave(tx *gorm.DB) error {
	return validateRecord("app", a)
}

// HasMember reports whether the user with userID belongs to the app.
// Users must have been preloaded.
func (a *App) HasMember(userID uint) bool {
	for _, u := range a.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Scheme is a build variant of an app, such as "beta" or "production"
type Scheme struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	AppID     uint      `gorm:"column:app_id;not null" json:"app_id"`
	Name      string    `gorm:"column:name;not null" json:"name" validate:"notblank,max=255"`
	Channels  []Channel `gorm:"foreignKey:SchemeID" json:"channels"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Scheme) TableName() string {
	return "schemes"
}

func (s *Scheme) BeforeSave(tx *gorm.DB) error {
	return validateRecord("scheme", s)
}

// Channel is a platform-specific distribution target of a scheme
type Channel struct {
	ID         uint       `gorm:"column:id;primaryKey" json:"id"`
	SchemeID   uint       `gorm:"column:scheme_id;not null" json:"scheme_id"`
	Name       string     `gorm:"column:name;not null" json:"name" validate:"notblank,max=255"`
	DeviceType DeviceType `gorm:"column:device_type;type:varchar(32);not null" json:"device_type"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Channel) TableName() string {
	return "channels"
}

func (c *Channel) BeforeSave(tx *gorm.DB) error {
	return validateRecord("channel", c, func(ve *ValidationError) {
		if !c.DeviceType.IsADeviceType() {
			ve.Add("device_type", MessageInvalid)
		}
	})
}
