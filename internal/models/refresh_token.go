package models

import (
	"time"
)

// RefreshToken represents a JWT refresh token in the database
type RefreshToken struct {
	BaseModel
	DoctorID  string    `gorm:"size:36;index" json:"doctor_id"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`

	// Define the relationship to Doctor
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}
