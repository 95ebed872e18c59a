package model

// Membership links a user to an app they belong to
type Membership struct {
	AppID  uint `gorm:"column:app_id;primaryKey"`
	UserID uint `gorm:"column:user_id;primaryKey"`
}

func (Membership) TableName() string {
	return "apps_users"
}
