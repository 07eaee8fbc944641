package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mduret/dvdtheque-api/internal/domain"
	"gorm.io/gorm"
)

type dvdRepository struct {
	db *gorm.DB
}

func NewDVDRepository(db *gorm.DB) *dvdRepository {
	return &dvdRepository{db: db}
}

func (r *dvdRepository) Create(ctx context.Context, dvd *domain.DVD) error {
	return r.db.WithContext(ctx).Create(dvd).Error
}

func (r *dvdRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.DVD, error) {
	var dvd domain.DVD
	err := r.db.WithContext(ctx).
		First(&dvd, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &dvd, nil
}

func (r *dvdRepository) List(ctx context.Context, ownerID uuid.UUID, query string, limit, offset int) ([]*domain.DVD, error) {
	var dvds []*domain.DVD
	err := r.scoped(ctx, ownerID, query).
		Order("title").
		Limit(limit).
		Offset(offset).
		Find(&dvds).Error
	if err != nil {
		return nil, err
	}
	return dvds, nil
}

func (r *dvdRepository) Count(ctx context.Context, ownerID uuid.UUID, query string) (int64, error) {
	var total int64
	err := r.scoped(ctx, ownerID, query).
		Model(&domain.DVD{}).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *dvdRepository) Update(ctx context.Context, dvd *domain.DVD) error {
	return r.db.WithContext(ctx).Save(dvd).Error
}

func (r *dvdRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&domain.DVD{}, "id = ? AND user_id = ?", id, ownerID)
	return result.RowsAffected, result.Error
}

func (r *dvdRepository) scoped(ctx context.Context, ownerID uuid.UUID, query string) *gorm.DB {
	tx := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("title ILIKE ? OR director ILIKE ? OR genre ILIKE ?", pattern, pattern, pattern)
	}
	return tx
}
