package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"checkup-server/internal/models"
)

// Compile-time check to ensure GormCheckupStore implements CheckupStore
var _ CheckupStore = (*GormCheckupStore)(nil)

// GormCheckupStore is the MySQL-backed CheckupStore.
type GormCheckupStore struct {
	DB *gorm.DB
}

// NewGormCheckupStore creates a new GormCheckupStore.
func NewGormCheckupStore(db *gorm.DB) *GormCheckupStore {
	return &GormCheckupStore{DB: db}
}

// Create inserts a new checkup row. GORM fills the UUID id via the
// BeforeCreate hook and the creation timestamp.
func (s *GormCheckupStore) Create(ctx context.Context, checkup *models.Checkup) error {
	if err := s.DB.WithContext(ctx).Create(checkup).Error; err != nil {
		return fmt.Errorf("failed to create checkup: %w", err)
	}
	return nil
}

// ListByDoctor returns the doctor's checkups in inverse chronological order
// (most recent first), capped at CheckupListLimit.
func (s *GormCheckupStore) ListByDoctor(ctx context.Context, doctorID string) ([]models.Checkup, error) {
	var checkups []models.Checkup
	err := s.DB.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at desc").
		Limit(CheckupListLimit).
		Find(&checkups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checkups: %w", err)
	}
	return checkups, nil
}

// GetByID fetches one checkup by id, filtered on the owning doctor. A row
// belonging to another doctor yields ErrNotFound rather than the record.
func (s *GormCheckupStore) GetByID(ctx context.Context, doctorID, id string) (*models.Checkup, error) {
	var checkup models.Checkup
	err := s.DB.WithContext(ctx).
		Preload("Doctor").
		Where("doctor_id = ? AND id = ?", doctorID, id).
		First(&checkup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch checkup: %w", err)
	}
	return &checkup, nil
}
