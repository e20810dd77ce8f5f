package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/validator"
)

func newUserFixture(users *mockUserRepo, roles *mockRoleRepo) UserService {
	if roles == nil {
		roles = newMockRoleRepo()
	}
	users.roleStore = roles
	repo := &mockRepository{user: users, role: roles}
	return NewUserService(repo, validator.New(), testLogger())
}

func TestUserCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		users := newMockUserRepo()
		svc := newUserFixture(users, nil)

		user, err := svc.Create(ctx, UserCreateRequest{Name: "Admin", Email: "admin@school.id", Password: "secret123"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if user.PasswordHash == "secret123" {
			t.Error("password must not be stored in plain text")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
			t.Errorf("stored hash does not match the password: %v", err)
		}
	})

	t.Run("email taken", func(t *testing.T) {
		users := newMockUserRepo(&models.User{ID: 1, Email: "admin@school.id"})
		svc := newUserFixture(users, nil)

		_, err := svc.Create(ctx, UserCreateRequest{Name: "Other", Email: "admin@school.id", Password: "secret123"})
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("Create() error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("unknown role ids", func(t *testing.T) {
		users := newMockUserRepo()
		svc := newUserFixture(users, newMockRoleRepo(&models.Role{ID: 1, Name: "admin"}))

		_, err := svc.Create(ctx, UserCreateRequest{
			Name:     "Admin",
			Email:    "admin@school.id",
			Password: "secret123",
			RoleIDs:  []uint{1, 99},
		})
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("Create() error = %v, want validation errors", err)
		}
	})
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("self-deletion is rejected", func(t *testing.T) {
		users := newMockUserRepo(&models.User{ID: 1, Email: "admin@school.id"})
		svc := newUserFixture(users, nil)

		err := svc.Delete(ctx, 1, 1)
		var brErr *BusinessRuleError
		if !errors.As(err, &brErr) {
			t.Fatalf("Delete() error = %v, want BusinessRuleError", err)
		}
		if len(users.users) != 1 {
			t.Error("expected the account to survive")
		}
	})

	t.Run("deletes another account", func(t *testing.T) {
		users := newMockUserRepo(
			&models.User{ID: 1, Email: "admin@school.id"},
			&models.User{ID: 2, Email: "old@school.id"},
		)
		svc := newUserFixture(users, nil)

		if err := svc.Delete(ctx, 1, 2); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, ok := users.users[2]; ok {
			t.Error("expected the account to be removed")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newUserFixture(newMockUserRepo(), nil)

		if err := svc.Delete(ctx, 1, 404); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Delete() error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("email change checks uniqueness", func(t *testing.T) {
		users := newMockUserRepo(
			&models.User{ID: 1, Email: "a@school.id"},
			&models.User{ID: 2, Email: "b@school.id"},
		)
		svc := newUserFixture(users, nil)

		email := "b@school.id"
		if _, err := svc.Update(ctx, 1, UserUpdateRequest{Email: &email}); !errors.Is(err, ErrEmailTaken) {
			t.Errorf("Update() error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		users := newMockUserRepo(&models.User{ID: 1, Name: "Old", Email: "a@school.id"})
		svc := newUserFixture(users, nil)

		name := "New"
		user, err := svc.Update(ctx, 1, UserUpdateRequest{Name: &name})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if user.Name != "New" || user.Email != "a@school.id" {
			t.Errorf("got %s/%s, want New/a@school.id", user.Name, user.Email)
		}
	})
}
