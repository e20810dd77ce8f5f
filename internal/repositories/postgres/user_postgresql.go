package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := getDB(u.db, tx)
	return db.WithContext(ctx).Create(user).Error
}

func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := getDB(u.db, tx)
	return db.WithContext(ctx).Save(user).Error
}

func (u *UserPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(u.db, tx)
	return db.WithContext(ctx).Delete(&models.User{}, id).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := getDB(u.db, tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByIDWithRoles(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := getDB(u.db, tx)
	var user models.User
	if err := db.WithContext(ctx).
		Preload("Roles").
		Preload("Roles.Permissions").
		First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	db := getDB(u.db, tx)
	var user models.User
	if err := db.WithContext(ctx).
		Preload("Roles").
		Preload("Roles.Permissions").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	db := getDB(u.db, tx)
	var users []*models.User
	var total int64

	query := db.WithContext(ctx).Model(&models.User{})
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	if filters.Role != "" {
		query = query.
			Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Joins("JOIN roles ON roles.id = user_roles.role_id").
			Where("roles.name = ?", filters.Role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset).Order("users.created_at DESC")

	if err := query.Preload("Roles").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	db := getDB(u.db, tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) AssignRole(ctx context.Context, tx *gorm.DB, userID uint, roleID uint) error {
	db := getDB(u.db, tx)
	user := models.User{ID: userID}
	role := models.Role{ID: roleID}
	if err := db.WithContext(ctx).Model(&user).Association("Roles").Append(&role); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) ReplaceRoles(ctx context.Context, tx *gorm.DB, userID uint, roleIDs []uint) error {
	db := getDB(u.db, tx)
	roles := make([]*models.Role, len(roleIDs))
	for i, id := range roleIDs {
		roles[i] = &models.Role{ID: id}
	}
	user := models.User{ID: userID}
	if err := db.WithContext(ctx).Model(&user).Association("Roles").Replace(roles); err != nil {
		return fmt.Errorf("failed to replace roles: %w", err)
	}
	return nil
}
