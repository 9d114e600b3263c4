package service

import (
	"context"
	"errors"
	"testing"

	"github.com/qq3pta/coffee-shop-api/internal/domain"
	"github.com/qq3pta/coffee-shop-api/internal/repository"
)

func strPtr(s string) *string { return &s }

func rolePtr(r domain.Role) *domain.Role { return &r }

func TestUserServiceUpdateAppliesOnlySuppliedFields(t *testing.T) {
	stored := &domain.User{ID: 1, Email: "u@x.com", FirstName: "Ada", LastName: "Lovelace", Role: domain.RoleUser}
	var saved *domain.User
	repo := &stubUserRepository{
		findByIDFn: func(_ context.Context, _ uint) (*domain.User, error) {
			copied := *stored
			return &copied, nil
		},
		updateFn: func(_ context.Context, u *domain.User) error {
			saved = u
			return nil
		},
	}
	svc := NewUserService(repo)

	updated, err := svc.Update(context.Background(), 1, UserPatch{FirstName: strPtr("Grace")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Grace" {
		t.Fatalf("expected first name updated, got %q", updated.FirstName)
	}
	if updated.LastName != "Lovelace" || updated.Role != domain.RoleUser {
		t.Fatalf("expected untouched fields preserved, got %+v", updated)
	}
	if saved == nil {
		t.Fatal("expected repository update to be called")
	}
}

func TestUserServiceUpdateEmptyPatchIsNoOp(t *testing.T) {
	repo := &stubUserRepository{
		findByIDFn: func(_ context.Context, _ uint) (*domain.User, error) {
			return &domain.User{ID: 1, Email: "u@x.com", FirstName: "Ada"}, nil
		},
		updateFn: func(_ context.Context, _ *domain.User) error {
			t.Fatal("update must not be called for an empty patch")
			return nil
		},
	}
	svc := NewUserService(repo)

	user, err := svc.Update(context.Background(), 1, UserPatch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.FirstName != "Ada" {
		t.Fatalf("expected unchanged record, got %+v", user)
	}
}

func TestUserServiceUpdateRole(t *testing.T) {
	repo := &stubUserRepository{
		findByIDFn: func(_ context.Context, _ uint) (*domain.User, error) {
			return &domain.User{ID: 2, Email: "u@x.com", Role: domain.RoleUser}, nil
		},
		updateFn: func(_ context.Context, _ *domain.User) error { return nil },
	}
	svc := NewUserService(repo)

	updated, err := svc.Update(context.Background(), 2, UserPatch{Role: rolePtr(domain.RoleAdmin)})
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %q", updated.Role)
	}

	if _, err := svc.Update(context.Background(), 2, UserPatch{Role: rolePtr(domain.Role("superuser"))}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown role, got %v", err)
	}
}

func TestUserServiceUpdateMissingUser(t *testing.T) {
	repo := &stubUserRepository{
		findByIDFn: func(_ context.Context, _ uint) (*domain.User, error) {
			return nil, repository.ErrUserNotFound
		},
	}
	svc := NewUserService(repo)

	if _, err := svc.Update(context.Background(), 42, UserPatch{FirstName: strPtr("X")}); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceListAndDeleteDelegate(t *testing.T) {
	repo := &stubUserRepository{
		listFn: func(_ context.Context) ([]domain.User, error) {
			return []domain.User{{ID: 1}, {ID: 2}}, nil
		},
		deleteFn: func(_ context.Context, id uint) error {
			if id == 1 {
				return nil
			}
			return repository.ErrUserNotFound
		},
	}
	svc := NewUserService(repo)

	users, err := svc.List(context.Background())
	if err != nil || len(users) != 2 {
		t.Fatalf("list: users=%v err=%v", users, err)
	}
	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), 99); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
