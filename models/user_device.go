package models

import "time"

// UserDevice is one registered push endpoint. The raw device token is
// never stored, only its hash, so re-registrations dedupe cleanly.
type UserDevice struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;uniqueIndex:idx_device_user_token"`
	Platform    string `gorm:"size:16"` // "android" | "ios"
	TokenHash   string `gorm:"size:64;uniqueIndex:idx_device_user_token"`
	EndpointARN string `gorm:"size:256"`
	Enabled     bool   `gorm:"default:true"`
	UpdatedAt   time.Time
	CreatedAt   time.Time
}
