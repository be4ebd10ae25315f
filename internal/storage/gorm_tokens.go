package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"checkup-server/internal/models"
)

// Compile-time check to ensure GormRefreshTokenStore implements RefreshTokenStore
var _ RefreshTokenStore = (*GormRefreshTokenStore)(nil)

// GormRefreshTokenStore is the MySQL-backed RefreshTokenStore.
type GormRefreshTokenStore struct {
	DB *gorm.DB
}

// NewGormRefreshTokenStore creates a new GormRefreshTokenStore.
func NewGormRefreshTokenStore(db *gorm.DB) *GormRefreshTokenStore {
	return &GormRefreshTokenStore{DB: db}
}

func (s *GormRefreshTokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	if err := s.DB.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (s *GormRefreshTokenStore) GetActive(ctx context.Context, token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	err := s.DB.WithContext(ctx).
		Where("token = ? AND is_revoked = ? AND expires_at > ?", token, false, time.Now()).
		First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch refresh token: %w", err)
	}
	return &stored, nil
}

// Revoke marks the token as revoked and forces its expiry.
func (s *GormRefreshTokenStore) Revoke(ctx context.Context, token *models.RefreshToken) error {
	token.IsRevoked = true
	token.ExpiresAt = time.Now()
	if err := s.DB.WithContext(ctx).Save(token).Error; err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
