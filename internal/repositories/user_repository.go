package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string // Search query for name or email
	Role   string // Filter by role slug
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	// GetByIDWithRoles preloads roles and their permissions; the authorization
	// gate calls this once per request.
	GetByIDWithRoles(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)

	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)

	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)

	AssignRole(ctx context.Context, tx *gorm.DB, userID uint, roleID uint) error
	ReplaceRoles(ctx context.Context, tx *gorm.DB, userID uint, roleIDs []uint) error
}

// RoleFilters defines filters for role queries
type RoleFilters struct {
	Query  string
	Limit  int
	Offset int
}

type RoleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, role *models.Role) error
	Update(ctx context.Context, tx *gorm.DB, role *models.Role) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Role, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Role, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Role, error)

	List(ctx context.Context, tx *gorm.DB, filters RoleFilters) ([]*models.Role, int64, error)

	ReplacePermissions(ctx context.Context, tx *gorm.DB, roleID uint, permissionIDs []uint) error
	ReplaceUsers(ctx context.Context, tx *gorm.DB, roleID uint, userIDs []uint) error
}

type PermissionRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Permission, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Permission, error)
	// List returns all permissions ordered by group then name.
	List(ctx context.Context, tx *gorm.DB) ([]*models.Permission, error)
}
