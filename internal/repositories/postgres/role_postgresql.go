package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

type RolePostgreSQL struct {
	db *gorm.DB
}

func NewRolePostgreSQL(db *gorm.DB) repositories.RoleRepository {
	return &RolePostgreSQL{db: db}
}

func (r *RolePostgreSQL) Create(ctx context.Context, tx *gorm.DB, role *models.Role) error {
	db := getDB(r.db, tx)
	return db.WithContext(ctx).Create(role).Error
}

func (r *RolePostgreSQL) Update(ctx context.Context, tx *gorm.DB, role *models.Role) error {
	db := getDB(r.db, tx)
	return db.WithContext(ctx).Save(role).Error
}

func (r *RolePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	return db.WithContext(ctx).Delete(&models.Role{}, id).Error
}

func (r *RolePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Role, error) {
	db := getDB(r.db, tx)
	var role models.Role
	if err := db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RolePostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Role, error) {
	db := getDB(r.db, tx)
	var role models.Role
	if err := db.WithContext(ctx).
		Preload("Permissions").
		Preload("Users").
		First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RolePostgreSQL) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Role, error) {
	db := getDB(r.db, tx)
	var role models.Role
	if err := db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RolePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.RoleFilters) ([]*models.Role, int64, error) {
	db := getDB(r.db, tx)
	var roles []*models.Role
	var total int64

	query := db.WithContext(ctx).Model(&models.Role{})
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR display_name ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset).Order("name ASC")

	if err := query.Preload("Permissions").Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

func (r *RolePostgreSQL) ReplacePermissions(ctx context.Context, tx *gorm.DB, roleID uint, permissionIDs []uint) error {
	db := getDB(r.db, tx)
	permissions := make([]*models.Permission, len(permissionIDs))
	for i, id := range permissionIDs {
		permissions[i] = &models.Permission{ID: id}
	}
	role := models.Role{ID: roleID}
	if err := db.WithContext(ctx).Model(&role).Association("Permissions").Replace(permissions); err != nil {
		return fmt.Errorf("failed to replace permissions: %w", err)
	}
	return nil
}

func (r *RolePostgreSQL) ReplaceUsers(ctx context.Context, tx *gorm.DB, roleID uint, userIDs []uint) error {
	db := getDB(r.db, tx)
	users := make([]*models.User, len(userIDs))
	for i, id := range userIDs {
		users[i] = &models.User{ID: id}
	}
	role := models.Role{ID: roleID}
	if err := db.WithContext(ctx).Model(&role).Association("Users").Replace(users); err != nil {
		return fmt.Errorf("failed to replace users: %w", err)
	}
	return nil
}

// ===== PERMISSIONS =====

type PermissionPostgreSQL struct {
	db *gorm.DB
}

func NewPermissionPostgreSQL(db *gorm.DB) repositories.PermissionRepository {
	return &PermissionPostgreSQL{db: db}
}

func (p *PermissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Permission, error) {
	db := getDB(p.db, tx)
	var permission models.Permission
	if err := db.WithContext(ctx).First(&permission, id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (p *PermissionPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Permission, error) {
	db := getDB(p.db, tx)
	var permissions []*models.Permission
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (p *PermissionPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Permission, error) {
	db := getDB(p.db, tx)
	var permissions []*models.Permission
	if err := db.WithContext(ctx).
		Order("permission_group ASC, name ASC").
		Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}
