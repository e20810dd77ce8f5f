package models

import (
	"time"

	"gorm.io/gorm"
)

// SuperAdminRole bypasses every role and permission check and can never be
// removed through the standard role management endpoints.
const SuperAdminRole = "super_admin"

const StudentRole = "student"

type User struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"not null;size:100"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string  `json:"-" gorm:"not null;size:255"`
	AvatarURL    *string `json:"avatar_url" gorm:"size:500"`

	EmailVerifiedAt *time.Time `json:"email_verified_at"`

	Roles []*Role `json:"roles,omitempty" gorm:"many2many:user_roles"`

	// Back-reference to an optional student profile, set when the user was
	// provisioned through the student bootstrap login.
	Student *Student `json:"student,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether any assigned role matches name. The super_admin
// role passes every role check regardless of the name requested.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name || r.Name == SuperAdminRole {
			return true
		}
	}
	return false
}

// HasPermission reports whether any assigned role carries the named
// permission. super_admin bypasses the check entirely.
func (u *User) HasPermission(name string) bool {
	for _, r := range u.Roles {
		if r.Name == SuperAdminRole {
			return true
		}
		for _, p := range r.Permissions {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

type Role struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:100"`
	DisplayName string `json:"display_name" gorm:"not null;size:100"`
	Description string `json:"description" gorm:"size:500"`

	Permissions []*Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions"`
	Users       []*User       `json:"users,omitempty" gorm:"many2many:user_roles"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Role) TableName() string {
	return "roles"
}

// IsProtected reports whether the role must never be deleted or deactivated
// through the standard role management actions.
func (r *Role) IsProtected() bool {
	return r.Name == SuperAdminRole
}

// Permission slugs known to the router and the seeder.
const (
	PermManageUsers      = "manage_users"
	PermManageRoles      = "manage_roles"
	PermManageStudents   = "manage_students"
	PermRecordAttendance = "record_attendance"
	PermViewReports      = "view_reports"
	PermManageGrades     = "manage_grades"
	PermManageExams      = "manage_exams"
	PermCreatePages      = "create_pages"
	PermEditPages        = "edit_pages"
	PermManageContent    = "manage_content"
	PermManageSettings   = "manage_settings"
)

// Permission is immutable reference data seeded at install time.
type Permission struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:100"`
	DisplayName string `json:"display_name" gorm:"not null;size:100"`
	Group       string `json:"group" gorm:"column:permission_group;index;size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Permission) TableName() string {
	return "permissions"
}
