package service

import (
	"context"
	"fmt"

	"github.com/qq3pta/coffee-shop-api/internal/domain"
	"github.com/qq3pta/coffee-shop-api/internal/repository"
)

// UserPatch holds the optional fields an admin may change. Only fields that
// are explicitly present apply; an empty patch is a no-op.
type UserPatch struct {
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Role      *domain.Role `json:"role"`
}

func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Role == nil
}

type UserServiceInterface interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	Update(ctx context.Context, id uint, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserService struct {
	repo repository.UserRepositoryInterface
}

func NewUserService(repo repository.UserRepositoryInterface) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id uint, patch UserPatch) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return user, nil
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *patch.Role)
		}
		user.Role = *patch.Role
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
