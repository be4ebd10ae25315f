// Package storage defines the persistence contracts consumed by the HTTP
// handlers and the submission orchestrator, together with their GORM-backed
// implementations.
package storage

import (
	"context"
	"errors"

	"checkup-server/internal/models"
)

// ErrNotFound is returned when a requested row does not exist or is not
// owned by the requesting doctor. Ownership is enforced by filtering on the
// doctor id, so a foreign record is indistinguishable from a missing one.
var ErrNotFound = errors.New("record not found")

// CheckupListLimit caps the number of checkups returned by a list call.
const CheckupListLimit = 10

// CheckupStore persists and retrieves checkup records, always scoped to the
// owning doctor.
type CheckupStore interface {
	// Create inserts the checkup and fills its generated id and creation time.
	Create(ctx context.Context, checkup *models.Checkup) error

	// ListByDoctor returns the doctor's most recent checkups, newest first,
	// capped at CheckupListLimit.
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Checkup, error)

	// GetByID returns a single checkup owned by the doctor, with the Doctor
	// relation preloaded. Returns ErrNotFound for missing or foreign rows.
	GetByID(ctx context.Context, doctorID, id string) (*models.Checkup, error)
}

// DoctorStore manages doctor accounts.
type DoctorStore interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByUsername(ctx context.Context, username string) (*models.Doctor, error)
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
}

// RefreshTokenStore manages stored refresh tokens for rotation and revocation.
type RefreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error

	// GetActive returns the stored token matching the given token string that
	// is neither revoked nor expired. Returns ErrNotFound otherwise.
	GetActive(ctx context.Context, token string) (*models.RefreshToken, error)

	Revoke(ctx context.Context, token *models.RefreshToken) error
}
