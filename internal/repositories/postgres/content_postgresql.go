package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

// ===== PAGES =====

type PagePostgreSQL struct {
	db *gorm.DB
}

func NewPagePostgreSQL(db *gorm.DB) repositories.PageRepository {
	return &PagePostgreSQL{db: db}
}

func (p *PagePostgreSQL) Create(ctx context.Context, tx *gorm.DB, page *models.Page) error {
	db := getDB(p.db, tx)
	return db.WithContext(ctx).Create(page).Error
}

func (p *PagePostgreSQL) Update(ctx context.Context, tx *gorm.DB, page *models.Page) error {
	db := getDB(p.db, tx)
	return db.WithContext(ctx).Save(page).Error
}

func (p *PagePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(p.db, tx)
	return db.WithContext(ctx).Delete(&models.Page{}, id).Error
}

func (p *PagePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Page, error) {
	db := getDB(p.db, tx)
	var page models.Page
	if err := db.WithContext(ctx).First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (p *PagePostgreSQL) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Page, error) {
	db := getDB(p.db, tx)
	var page models.Page
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (p *PagePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ContentFilters) ([]*models.Page, int64, error) {
	db := getDB(p.db, tx)
	var pages []*models.Page
	var total int64

	query := db.WithContext(ctx).Model(&models.Page{})
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("title ILIKE ? OR slug ILIKE ?", like, like)
	}
	if filters.ActiveOnly {
		query = query.Where("published = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset)

	if err := query.Order("updated_at DESC").Find(&pages).Error; err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

func (p *PagePostgreSQL) ListPublished(ctx context.Context, tx *gorm.DB) ([]*models.Page, error) {
	db := getDB(p.db, tx)
	var pages []*models.Page
	if err := db.WithContext(ctx).
		Where("published = true").
		Order("title ASC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// ===== FACILITIES =====

type FacilityPostgreSQL struct {
	db *gorm.DB
}

func NewFacilityPostgreSQL(db *gorm.DB) repositories.FacilityRepository {
	return &FacilityPostgreSQL{db: db}
}

func (f *FacilityPostgreSQL) Create(ctx context.Context, tx *gorm.DB, facility *models.Facility) error {
	db := getDB(f.db, tx)
	return db.WithContext(ctx).Create(facility).Error
}

func (f *FacilityPostgreSQL) Update(ctx context.Context, tx *gorm.DB, facility *models.Facility) error {
	db := getDB(f.db, tx)
	return db.WithContext(ctx).Save(facility).Error
}

func (f *FacilityPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(f.db, tx)
	return db.WithContext(ctx).Delete(&models.Facility{}, id).Error
}

func (f *FacilityPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Facility, error) {
	db := getDB(f.db, tx)
	var facility models.Facility
	if err := db.WithContext(ctx).First(&facility, id).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

func (f *FacilityPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ContentFilters) ([]*models.Facility, int64, error) {
	db := getDB(f.db, tx)
	var facilities []*models.Facility
	var total int64

	query := db.WithContext(ctx).Model(&models.Facility{})
	if filters.Query != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Query+"%")
	}
	if filters.ActiveOnly {
		query = query.Where("active = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset)

	if err := query.Order("sort_order ASC, name ASC").Find(&facilities).Error; err != nil {
		return nil, 0, err
	}
	return facilities, total, nil
}

// ===== PROJECTS =====

type ProjectPostgreSQL struct {
	db *gorm.DB
}

func NewProjectPostgreSQL(db *gorm.DB) repositories.ProjectRepository {
	return &ProjectPostgreSQL{db: db}
}

func (p *ProjectPostgreSQL) Create(ctx context.Context, tx *gorm.DB, project *models.Project) error {
	db := getDB(p.db, tx)
	return db.WithContext(ctx).Create(project).Error
}

func (p *ProjectPostgreSQL) Update(ctx context.Context, tx *gorm.DB, project *models.Project) error {
	db := getDB(p.db, tx)
	return db.WithContext(ctx).Save(project).Error
}

func (p *ProjectPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(p.db, tx)
	return db.WithContext(ctx).Delete(&models.Project{}, id).Error
}

func (p *ProjectPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Project, error) {
	db := getDB(p.db, tx)
	var project models.Project
	if err := db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (p *ProjectPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ContentFilters) ([]*models.Project, int64, error) {
	db := getDB(p.db, tx)
	var projects []*models.Project
	var total int64

	query := db.WithContext(ctx).Model(&models.Project{})
	if filters.Query != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Query+"%")
	}
	if filters.ActiveOnly {
		query = query.Where("active = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset)

	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// ===== ACHIEVEMENTS =====

type AchievementPostgreSQL struct {
	db *gorm.DB
}

func NewAchievementPostgreSQL(db *gorm.DB) repositories.AchievementRepository {
	return &AchievementPostgreSQL{db: db}
}

func (a *AchievementPostgreSQL) Create(ctx context.Context, tx *gorm.DB, achievement *models.Achievement) error {
	db := getDB(a.db, tx)
	return db.WithContext(ctx).Create(achievement).Error
}

func (a *AchievementPostgreSQL) Update(ctx context.Context, tx *gorm.DB, achievement *models.Achievement) error {
	db := getDB(a.db, tx)
	return db.WithContext(ctx).Save(achievement).Error
}

func (a *AchievementPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(a.db, tx)
	return db.WithContext(ctx).Delete(&models.Achievement{}, id).Error
}

func (a *AchievementPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Achievement, error) {
	db := getDB(a.db, tx)
	var achievement models.Achievement
	if err := db.WithContext(ctx).First(&achievement, id).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (a *AchievementPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ContentFilters) ([]*models.Achievement, int64, error) {
	db := getDB(a.db, tx)
	var achievements []*models.Achievement
	var total int64

	query := db.WithContext(ctx).Model(&models.Achievement{})
	if filters.Query != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Query+"%")
	}
	if filters.ActiveOnly {
		query = query.Where("active = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset)

	if err := query.Order("achieved_at DESC").Find(&achievements).Error; err != nil {
		return nil, 0, err
	}
	return achievements, total, nil
}

// ===== TEAM MEMBERS =====

type TeamMemberPostgreSQL struct {
	db *gorm.DB
}

func NewTeamMemberPostgreSQL(db *gorm.DB) repositories.TeamMemberRepository {
	return &TeamMemberPostgreSQL{db: db}
}

func (t *TeamMemberPostgreSQL) Create(ctx context.Context, tx *gorm.DB, member *models.TeamMember) error {
	db := getDB(t.db, tx)
	return db.WithContext(ctx).Create(member).Error
}

func (t *TeamMemberPostgreSQL) Update(ctx context.Context, tx *gorm.DB, member *models.TeamMember) error {
	db := getDB(t.db, tx)
	return db.WithContext(ctx).Save(member).Error
}

func (t *TeamMemberPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(t.db, tx)
	return db.WithContext(ctx).Delete(&models.TeamMember{}, id).Error
}

func (t *TeamMemberPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TeamMember, error) {
	db := getDB(t.db, tx)
	var member models.TeamMember
	if err := db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (t *TeamMemberPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ContentFilters) ([]*models.TeamMember, int64, error) {
	db := getDB(t.db, tx)
	var members []*models.TeamMember
	var total int64

	query := db.WithContext(ctx).Model(&models.TeamMember{})
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR position ILIKE ?", like, like)
	}
	if filters.ActiveOnly {
		query = query.Where("active = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset)

	if err := query.Order("sort_order ASC, name ASC").Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// ===== SITE SETTINGS =====

type SettingPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSettingPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SettingRepository {
	return &SettingPostgreSQL{db: db, cacheManager: cacheManager}
}

// Get returns "" for a missing key; callers treat the empty string as the
// default so a missing setting never fails a page.
func (s *SettingPostgreSQL) Get(ctx context.Context, tx *gorm.DB, key string) (string, error) {
	db := getDB(s.db, tx)
	var value string

	err := s.cacheManager.Settings.CacheOrExecute(ctx, key, &value, cache.SettingsCacheConfig.TTL, func() (interface{}, error) {
		var setting models.SiteSetting
		if err := db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil
			}
			return nil, err
		}
		return setting.Value, nil
	})

	return value, err
}

func (s *SettingPostgreSQL) Set(ctx context.Context, tx *gorm.DB, key, value string) error {
	db := getDB(s.db, tx)
	setting := models.SiteSetting{Key: key, Value: value}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return err
	}

	cache.InvalidateSettingsCache(ctx, s.cacheManager)
	return nil
}

func (s *SettingPostgreSQL) All(ctx context.Context, tx *gorm.DB) (map[string]string, error) {
	db := getDB(s.db, tx)
	var settings []models.SiteSetting
	if err := db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return result, nil
}
