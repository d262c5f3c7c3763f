package role

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
)

type RoleRepositoryInterface interface {
	GetAll(ctx context.Context) ([]domain.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) (*domain.Role, error)
	Rename(ctx context.Context, oldName, newName string) (*domain.Role, error)
	DeleteByName(ctx context.Context, name string) error
}

type Service struct {
	roles RoleRepositoryInterface
}

func NewService(roles RoleRepositoryInterface) *Service {
	return &Service{roles: roles}
}

func (s *Service) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.GetAll(ctx)
}

func (s *Service) Create(ctx context.Context, name string) (*domain.Role, error) {
	exists, err := s.roles.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRoleExists
	}
	return s.roles.Create(ctx, name)
}

func (s *Service) Rename(ctx context.Context, oldName, newName string) (*domain.Role, error) {
	exists, err := s.roles.ExistsByName(ctx, newName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRoleExists
	}

	role, err := s.roles.Rename(ctx, oldName, newName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.roles.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	return nil
}
