package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/validator"
)

func newRoleFixture(roles *mockRoleRepo, permissions *mockPermissionRepo) RoleService {
	if permissions == nil {
		permissions = newMockPermissionRepo()
	}
	repo := &mockRepository{role: roles, permission: permissions}
	return NewRoleService(repo, validator.New(), testLogger())
}

func TestRoleCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with permissions", func(t *testing.T) {
		roles := newMockRoleRepo()
		perms := newMockPermissionRepo(
			&models.Permission{ID: 1, Name: "record_attendance"},
			&models.Permission{ID: 2, Name: "view_reports"},
		)
		svc := newRoleFixture(roles, perms)

		role, err := svc.Create(ctx, RoleCreateRequest{
			Name:          "homeroom_teacher",
			DisplayName:   "Homeroom Teacher",
			PermissionIDs: []uint{1, 2},
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if role.Name != "homeroom_teacher" {
			t.Errorf("Name = %s, want homeroom_teacher", role.Name)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		roles := newMockRoleRepo(&models.Role{ID: 1, Name: "teacher", DisplayName: "Teacher"})
		svc := newRoleFixture(roles, nil)

		_, err := svc.Create(ctx, RoleCreateRequest{Name: "teacher", DisplayName: "Teacher"})
		if !errors.Is(err, ErrRoleTaken) {
			t.Errorf("Create() error = %v, want ErrRoleTaken", err)
		}
	})

	t.Run("unknown permission ids", func(t *testing.T) {
		roles := newMockRoleRepo()
		perms := newMockPermissionRepo(&models.Permission{ID: 1, Name: "view_reports"})
		svc := newRoleFixture(roles, perms)

		_, err := svc.Create(ctx, RoleCreateRequest{
			Name:          "auditor",
			DisplayName:   "Auditor",
			PermissionIDs: []uint{1, 99},
		})
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Create() error = %v, want validation errors", err)
		}
		if verrs[0].Field != "permission_ids" {
			t.Errorf("Field = %s, want permission_ids", verrs[0].Field)
		}
	})
}

func TestRoleDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an ordinary role", func(t *testing.T) {
		roles := newMockRoleRepo(&models.Role{ID: 2, Name: "teacher", DisplayName: "Teacher"})
		svc := newRoleFixture(roles, nil)

		if err := svc.Delete(ctx, 2); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if len(roles.deleted) != 1 || roles.deleted[0] != 2 {
			t.Errorf("deleted = %v, want [2]", roles.deleted)
		}
	})

	t.Run("super_admin can never be deleted", func(t *testing.T) {
		roles := newMockRoleRepo(&models.Role{ID: 1, Name: models.SuperAdminRole, DisplayName: "Super Admin"})
		svc := newRoleFixture(roles, nil)

		err := svc.Delete(ctx, 1)
		if !errors.Is(err, ErrProtectedRole) {
			t.Errorf("Delete() error = %v, want ErrProtectedRole", err)
		}
		if len(roles.deleted) != 0 {
			t.Error("expected no delete call for the protected role")
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := newRoleFixture(newMockRoleRepo(), nil)

		err := svc.Delete(ctx, 404)
		if !errors.Is(err, ErrRoleNotFound) {
			t.Errorf("Delete() error = %v, want ErrRoleNotFound", err)
		}
	})
}

func TestRoleUpdate(t *testing.T) {
	ctx := context.Background()

	roles := newMockRoleRepo(&models.Role{ID: 2, Name: "teacher", DisplayName: "Teacher", Description: "old"})
	svc := newRoleFixture(roles, nil)

	display := "Senior Teacher"
	role, err := svc.Update(ctx, 2, RoleUpdateRequest{DisplayName: &display})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if role.DisplayName != "Senior Teacher" {
		t.Errorf("DisplayName = %s, want Senior Teacher", role.DisplayName)
	}
	if role.Description != "old" {
		t.Errorf("Description = %s, want unchanged", role.Description)
	}
}
