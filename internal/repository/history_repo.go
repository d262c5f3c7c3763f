package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
)

type AuthHistoryRepository struct {
	db *gorm.DB
}

func NewAuthHistoryRepository(db *gorm.DB) *AuthHistoryRepository {
	return &AuthHistoryRepository{db: db}
}

func (r *AuthHistoryRepository) Insert(ctx context.Context, entry *domain.AuthHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByUser returns one page of a user's attempts, newest first, together
// with the total row count for pagination.
func (r *AuthHistoryRepository) ListByUser(ctx context.Context, userID string, page, size int) ([]domain.AuthHistory, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.AuthHistory{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.AuthHistory
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&entries)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return entries, total, nil
}
