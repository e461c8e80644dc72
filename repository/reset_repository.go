package repository

import (
	"errors"
	"fmt"
	"time"

	"WonFM/model"

	"gorm.io/gorm"
)

// ErrResetNotFound is returned when a reset token is unknown, expired or used.
var ErrResetNotFound = errors.New("reset token not found")

// ResetRepository manages password-reset tokens.
type ResetRepository interface {
	CreateReset(reset *model.PasswordReset) error
	ConsumeReset(token string) (*model.PasswordReset, error)
}

// gormResetRepository implements ResetRepository with GORM.
type gormResetRepository struct {
	db *gorm.DB
}

// NewGormResetRepository creates a new gormResetRepository.
func NewGormResetRepository(db *gorm.DB) ResetRepository {
	return &gormResetRepository{db: db}
}

// CreateReset stores a new reset token.
func (r *gormResetRepository) CreateReset(reset *model.PasswordReset) error {
	if err := r.db.Create(reset).Error; err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// ConsumeReset validates a token and marks it used. A token can be consumed
// exactly once and only before its expiry.
func (r *gormResetRepository) ConsumeReset(token string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	err := r.db.Where("token = ? AND used = ? AND expires_at > ?", token, false, time.Now()).
		First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetNotFound
		}
		return nil, fmt.Errorf("failed to look up password reset: %w", err)
	}

	if err := r.db.Model(&reset).Update("used", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark password reset used: %w", err)
	}
	return &reset, nil
}
