package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"checkup-server/internal/models"
)

// Compile-time check to ensure GormDoctorStore implements DoctorStore
var _ DoctorStore = (*GormDoctorStore)(nil)

// GormDoctorStore is the MySQL-backed DoctorStore.
type GormDoctorStore struct {
	DB *gorm.DB
}

// NewGormDoctorStore creates a new GormDoctorStore.
func NewGormDoctorStore(db *gorm.DB) *GormDoctorStore {
	return &GormDoctorStore{DB: db}
}

func (s *GormDoctorStore) Create(ctx context.Context, doctor *models.Doctor) error {
	if err := s.DB.WithContext(ctx).Create(doctor).Error; err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (s *GormDoctorStore) GetByUsername(ctx context.Context, username string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	return &doctor, nil
}

func (s *GormDoctorStore) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.DB.WithContext(ctx).First(&doctor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	return &doctor, nil
}
