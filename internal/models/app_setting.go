package models

import "time"

const (
	SettingTheme        = "theme"
	SettingLogo         = "logo"
	SettingAdminProfile = "admin_profile"
)

type AppSetting struct {
	Key       string    `gorm:"primary_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
