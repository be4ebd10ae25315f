package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Doctor represents an authenticated practitioner, the only principal in
// the system. Checkups are always scoped to the doctor who created them.
type Doctor struct {
	BaseModel
	Username     string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Name         string `gorm:"size:255;not null" json:"name"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never send the hash in JSON

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken `gorm:"foreignKey:DoctorID" json:"-"`
	Checkups      []Checkup      `gorm:"foreignKey:DoctorID" json:"-"`
}

// DoctorSanitized represents the doctor data that is safe to send in API responses.
type DoctorSanitized struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SetPassword hashes a password and sets it on the doctor
func (d *Doctor) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the doctor's hashed password
func (d *Doctor) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password))
	return err == nil
}

// Sanitize creates a DoctorSanitized struct from a Doctor model, excluding sensitive data.
func (d *Doctor) Sanitize() DoctorSanitized {
	return DoctorSanitized{
		ID:        d.ID,
		Username:  d.Username,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}
