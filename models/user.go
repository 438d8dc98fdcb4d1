package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	// IANA timezone name, e.g. "America/New_York". Consumption and score
	// dates are normalized against this at every write path.
	Timezone string `gorm:"size:64;default:UTC"`

	ResetToken    string
	ResetTokenExp time.Time
}
