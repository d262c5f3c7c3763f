package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
)

type OAuthRepository struct {
	db *gorm.DB
}

func NewOAuthRepository(db *gorm.DB) *OAuthRepository {
	return &OAuthRepository{db: db}
}

// GetAccount finds a linked account by the provider's own user id. Returns
// (nil, nil) when no account is linked yet.
func (r *OAuthRepository) GetAccount(ctx context.Context, providerUserID, providerName string) (*domain.OAuthAccount, error) {
	var account domain.OAuthAccount
	tx := r.db.WithContext(ctx).
		Where("provider_user_id = ? AND provider_name = ?", providerUserID, providerName).
		First(&account)
	if IsNotFound(tx.Error) {
		return nil, nil
	}
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &account, nil
}

func (r *OAuthRepository) CreateAccount(ctx context.Context, account *domain.OAuthAccount) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(account).Error
}
