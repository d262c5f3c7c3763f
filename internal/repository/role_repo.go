package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetAll(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	tx := r.db.WithContext(ctx).Order("name").Find(&roles)
	return roles, tx.Error
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	tx := r.db.WithContext(ctx).Where("name = ?", name).First(&role)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &role, nil
}

func (r *RoleRepository) IDByName(ctx context.Context, name string) (string, error) {
	role, err := r.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	return role.ID, nil
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.Role{}).Where("name = ?", name).Count(&count)
	return count > 0, tx.Error
}

func (r *RoleRepository) Create(ctx context.Context, name string) (*domain.Role, error) {
	role := domain.Role{ID: uuid.NewString(), Name: name}
	if err := r.db.WithContext(ctx).Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) Rename(ctx context.Context, oldName, newName string) (*domain.Role, error) {
	role, err := r.GetByName(ctx, oldName)
	if err != nil {
		return nil, err
	}
	role.Name = newName
	if err := r.db.WithContext(ctx).Save(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) DeleteByName(ctx context.Context, name string) error {
	role, err := r.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(role).Error
}
