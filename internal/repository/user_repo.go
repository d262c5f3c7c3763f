package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Where("login = ?", login).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Where("login = ?", login).Count(&count)
	return count > 0, tx.Error
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// GetRoleName resolves the current role name for a login. Users without an
// assigned role resolve to the empty string.
func (r *UserRepository) GetRoleName(ctx context.Context, login string) (string, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Preload("Role").Where("login = ?", login).First(&u)
	if tx.Error != nil {
		return "", tx.Error
	}
	if u.Role == nil {
		return "", nil
	}
	return u.Role.Name, nil
}

// AssignRole points the user at an existing role.
func (r *UserRepository) AssignRole(ctx context.Context, login, roleID string) (*domain.User, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Where("id = ?", roleID).First(&role).Error; err != nil {
		return nil, err
	}

	u, err := r.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	u.RoleID = &role.ID
	u.Role = &role
	if err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("login = ?", login).Update("role_id", role.ID).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// UnassignRole clears the user's role if it currently matches roleID.
func (r *UserRepository) UnassignRole(ctx context.Context, login, roleID string) error {
	var role domain.Role
	if err := r.db.WithContext(ctx).Where("id = ?", roleID).First(&role).Error; err != nil {
		return err
	}

	u, err := r.GetByLogin(ctx, login)
	if err != nil {
		return err
	}
	if u.RoleID == nil || *u.RoleID != roleID {
		return gorm.ErrRecordNotFound
	}

	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("login = ?", login).Update("role_id", nil).Error
}

// IsNotFound reports whether err is gorm's missing-row error, so services do
// not import gorm just for this check.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports a unique constraint violation. Existence checks run
// before inserts, but two concurrent signups can still race to the same login.
func IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
