package model

import (
	"time"

	"gorm.io/gorm"
)

// User is a person who signs in to Zealot
type User struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Username  string    `gorm:"column:username;not null" json:"username" validate:"notblank,max=255"`
	Email     string    `gorm:"column:email" json:"email" validate:"omitempty,email,max=255"`
	Role      Role      `gorm:"column:role;type:varchar(32);not null" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	return validateRecord("user", u, func(ve *ValidationError) {
		if !u.Role.IsARole() {
			ve.Add("role", MessageInvalid)
		}
	})
}
