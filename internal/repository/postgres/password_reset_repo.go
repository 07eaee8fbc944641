package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mduret/dvdtheque-api/internal/domain"
	"gorm.io/gorm"
)

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *passwordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *passwordResetRepository) GetValidByToken(ctx context.Context, token string, now time.Time) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	err := r.db.WithContext(ctx).
		First(&reset, "token = ? AND expires_at > ?", token, now).Error
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.PasswordReset{}, "user_id = ?", userID).Error
}

func (r *passwordResetRepository) DeleteConsumed(ctx context.Context, userID uuid.UUID, token string, now time.Time) error {
	return r.db.WithContext(ctx).
		Delete(&domain.PasswordReset{},
			"token = ? OR (user_id = ? AND expires_at <= ?)", token, userID, now).Error
}
