package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aegis-id/auth-service/internal/core/domain"
)

func seedUser(t *testing.T, repo *stubUserRepo, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Name:  "seed",
		Email: email,
		Role:  role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserService_GetByID(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seeded := seedUser(t, repo, "a@example.com", domain.RoleUser)

	got, err := svc.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}
}

func TestUserService_ChangeRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seeded := seedUser(t, repo, "b@example.com", domain.RoleUser)

	promoted, err := svc.ChangeRole(context.Background(), seeded.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if promoted.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", promoted.Role)
	}

	// Demotion goes through the same path.
	demoted, err := svc.ChangeRole(context.Background(), seeded.ID, domain.RoleUser)
	if err != nil {
		t.Fatalf("demote returned error: %v", err)
	}
	if demoted.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %q", demoted.Role)
	}

	if _, err := svc.ChangeRole(context.Background(), seeded.ID, domain.Role("superuser")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), "missing", domain.RoleAdmin); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seeded := seedUser(t, repo, "c@example.com", domain.RoleUser)

	if err := svc.Delete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), seeded.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user still present after delete")
	}
	if err := svc.Delete(context.Background(), seeded.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestUserService_ListAll(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seedUser(t, repo, "d@example.com", domain.RoleUser)
	seedUser(t, repo, "e@example.com", domain.RoleAdmin)

	users, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
