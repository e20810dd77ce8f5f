package models

import "testing"

func userWith(roles ...*Role) *User {
	return &User{ID: 1, Name: "Test", Roles: roles}
}

func TestUserHasRole(t *testing.T) {
	teacher := &Role{Name: "teacher"}
	superAdmin := &Role{Name: SuperAdminRole}

	tests := []struct {
		name string
		user *User
		role string
		want bool
	}{
		{"direct match", userWith(teacher), "teacher", true},
		{"no match", userWith(teacher), "admin", false},
		{"no roles at all", userWith(), "teacher", false},
		{"super_admin passes any role check", userWith(superAdmin), "admin", true},
		{"super_admin passes its own check", userWith(superAdmin), SuperAdminRole, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasRole(tt.role); got != tt.want {
				t.Errorf("HasRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestUserHasPermission(t *testing.T) {
	teacher := &Role{
		Name: "teacher",
		Permissions: []*Permission{
			{Name: "record_attendance"},
			{Name: "view_reports"},
		},
	}
	emptyRole := &Role{Name: "viewer"}
	superAdmin := &Role{Name: SuperAdminRole}

	tests := []struct {
		name       string
		user       *User
		permission string
		want       bool
	}{
		{"granted through role", userWith(teacher), "record_attendance", true},
		{"not granted", userWith(teacher), "manage_roles", false},
		{"role without permissions", userWith(emptyRole), "view_reports", false},
		{"no roles at all", userWith(), "view_reports", false},
		{"super_admin bypasses the check", userWith(superAdmin), "manage_roles", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasPermission(tt.permission); got != tt.want {
				t.Errorf("HasPermission(%q) = %v, want %v", tt.permission, got, tt.want)
			}
		})
	}
}

func TestRoleIsProtected(t *testing.T) {
	if !(&Role{Name: SuperAdminRole}).IsProtected() {
		t.Error("super_admin should be protected")
	}
	if (&Role{Name: "admin"}).IsProtected() {
		t.Error("admin should not be protected")
	}
}
