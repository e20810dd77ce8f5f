package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
)

// ContentFilters defines the shared pagination filters for content entities.
type ContentFilters struct {
	Query      string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type PageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, page *models.Page) error
	Update(ctx context.Context, tx *gorm.DB, page *models.Page) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Page, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Page, error)
	List(ctx context.Context, tx *gorm.DB, filters ContentFilters) ([]*models.Page, int64, error)
	ListPublished(ctx context.Context, tx *gorm.DB) ([]*models.Page, error)
}

type FacilityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, facility *models.Facility) error
	Update(ctx context.Context, tx *gorm.DB, facility *models.Facility) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Facility, error)
	List(ctx context.Context, tx *gorm.DB, filters ContentFilters) ([]*models.Facility, int64, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, project *models.Project) error
	Update(ctx context.Context, tx *gorm.DB, project *models.Project) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Project, error)
	List(ctx context.Context, tx *gorm.DB, filters ContentFilters) ([]*models.Project, int64, error)
}

type AchievementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, achievement *models.Achievement) error
	Update(ctx context.Context, tx *gorm.DB, achievement *models.Achievement) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Achievement, error)
	List(ctx context.Context, tx *gorm.DB, filters ContentFilters) ([]*models.Achievement, int64, error)
}

type TeamMemberRepository interface {
	Create(ctx context.Context, tx *gorm.DB, member *models.TeamMember) error
	Update(ctx context.Context, tx *gorm.DB, member *models.TeamMember) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TeamMember, error)
	List(ctx context.Context, tx *gorm.DB, filters ContentFilters) ([]*models.TeamMember, int64, error)
}

type SettingRepository interface {
	// Get returns the value for key, or "" when the key is absent.
	Get(ctx context.Context, tx *gorm.DB, key string) (string, error)
	Set(ctx context.Context, tx *gorm.DB, key, value string) error
	All(ctx context.Context, tx *gorm.DB) (map[string]string, error)
}
