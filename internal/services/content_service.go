package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

type contentService struct {
	repo      repositories.Repository
	validator *validator.Validator
	cache     *cache.CacheManager
	logger    utils.Logger
}

func NewContentService(
	repo repositories.Repository,
	v *validator.Validator,
	cacheManager *cache.CacheManager,
	logger utils.Logger,
) ContentService {
	return &contentService{repo: repo, validator: v, cache: cacheManager, logger: logger}
}

// ===== PAGES =====

func (s *contentService) CreatePage(ctx context.Context, createdBy uint, req PageCreateRequest) (*models.Page, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if _, err := s.repo.Page().GetBySlug(ctx, nil, req.Slug); err == nil {
		return nil, ErrSlugTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	content, err := marshalContent(req.Content)
	if err != nil {
		return nil, err
	}

	page := &models.Page{
		Slug:      req.Slug,
		Title:     req.Title,
		Content:   content,
		Published: req.Published,
		CreatedBy: createdBy,
	}

	if err := s.repo.Page().Create(ctx, nil, page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	cache.InvalidatePublishedPagesCache(ctx, s.cache)
	s.logger.Info("Page created", "page_id", page.ID, "slug", page.Slug)
	return page, nil
}

// UpdatePage requires the actor to own the page or hold the edit_pages
// permission. A nil actor is denied unconditionally.
func (s *contentService) UpdatePage(ctx context.Context, actor *models.User, id uint, req PageUpdateRequest) (*models.Page, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	page, err := s.repo.Page().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to look up page: %w", err)
	}

	if err := s.checkPageAccess(actor, page, "edit"); err != nil {
		return nil, err
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Content != nil {
		content, err := marshalContent(req.Content)
		if err != nil {
			return nil, err
		}
		page.Content = content
	}
	if req.Published != nil {
		page.Published = *req.Published
	}

	if err := s.repo.Page().Update(ctx, nil, page); err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	cache.InvalidatePublishedPagesCache(ctx, s.cache)
	return page, nil
}

func (s *contentService) DeletePage(ctx context.Context, actor *models.User, id uint) error {
	page, err := s.repo.Page().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPageNotFound
		}
		return fmt.Errorf("failed to look up page: %w", err)
	}

	if err := s.checkPageAccess(actor, page, "delete"); err != nil {
		return err
	}

	if err := s.repo.Page().Delete(ctx, nil, id); err != nil {
		return err
	}
	cache.InvalidatePublishedPagesCache(ctx, s.cache)
	return nil
}

func (s *contentService) GetPage(ctx context.Context, id uint) (*models.Page, error) {
	page, err := s.repo.Page().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	return page, nil
}

func (s *contentService) GetPageBySlug(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.repo.Page().GetBySlug(ctx, nil, slug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	return page, nil
}

func (s *contentService) ListPages(ctx context.Context, filters repositories.ContentFilters) ([]*models.Page, int64, error) {
	return s.repo.Page().List(ctx, nil, filters)
}

// PublishedPages backs the unauthenticated marketing site, so the listing is
// served from the short-lived cache and dropped on every page mutation.
func (s *contentService) PublishedPages(ctx context.Context) ([]*models.Page, error) {
	var pages []*models.Page
	err := s.cache.Fast.CacheOrExecute(ctx, cache.PublishedPagesKey, &pages, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Page().ListPublished(ctx, nil)
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// checkPageAccess enforces the resource-scoped rule: owner or delegated
// editor (edit_pages permission). Absent actor or entity means deny.
func (s *contentService) checkPageAccess(actor *models.User, page *models.Page, action string) error {
	if actor == nil || page == nil {
		return NewPermissionError(0, "pages", action, "no resolvable entity")
	}
	if page.CreatedBy == actor.ID {
		return nil
	}
	if actor.HasPermission(models.PermEditPages) {
		return nil
	}
	return NewPermissionError(actor.ID, "pages", action, "not owner or delegated editor")
}

// ===== FACILITIES =====

func (s *contentService) CreateFacility(ctx context.Context, req FacilityRequest) (*models.Facility, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	facility := &models.Facility{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		Active:      true,
	}
	if err := s.repo.Facility().Create(ctx, nil, facility); err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}
	return facility, nil
}

func (s *contentService) UpdateFacility(ctx context.Context, id uint, req FacilityRequest) (*models.Facility, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	facility, err := s.repo.Facility().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to look up facility: %w", err)
	}

	facility.Name = req.Name
	facility.Description = req.Description
	facility.ImageURL = req.ImageURL
	facility.SortOrder = req.SortOrder

	if err := s.repo.Facility().Update(ctx, nil, facility); err != nil {
		return nil, fmt.Errorf("failed to update facility: %w", err)
	}
	return facility, nil
}

func (s *contentService) DeleteFacility(ctx context.Context, id uint) error {
	if _, err := s.repo.Facility().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrContentNotFound
		}
		return fmt.Errorf("failed to look up facility: %w", err)
	}
	return s.repo.Facility().Delete(ctx, nil, id)
}

func (s *contentService) ToggleFacility(ctx context.Context, id uint) (*models.Facility, error) {
	facility, err := s.repo.Facility().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to look up facility: %w", err)
	}

	facility.Active = !facility.Active
	if err := s.repo.Facility().Update(ctx, nil, facility); err != nil {
		return nil, fmt.Errorf("failed to toggle facility: %w", err)
	}
	return facility, nil
}

func (s *contentService) ListFacilities(ctx context.Context, filters repositories.ContentFilters) ([]*models.Facility, int64, error) {
	return s.repo.Facility().List(ctx, nil, filters)
}

// ===== PROJECTS =====

func (s *contentService) CreateProject(ctx context.Context, req ProjectRequest) (*models.Project, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if err := s.repo.Project().Create(ctx, nil, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *contentService) UpdateProject(ctx context.Context, id uint, req ProjectRequest) (*models.Project, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	project, err := s.repo.Project().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}

	project.Title = req.Title
	project.Description = req.Description
	project.ImageURL = req.ImageURL

	if err := s.repo.Project().Update(ctx, nil, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (s *contentService) DeleteProject(ctx context.Context, id uint) error {
	if _, err := s.repo.Project().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrContentNotFound
		}
		return fmt.Errorf("failed to look up project: %w", err)
	}
	return s.repo.Project().Delete(ctx, nil, id)
}

func (s *contentService) ToggleProject(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.repo.Project().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}

	project.Active = !project.Active
	if err := s.repo.Project().Update(ctx, nil, project); err != nil {
		return nil, fmt.Errorf("failed to toggle project: %w", err)
	}
	return project, nil
}

func (s *contentService) ListProjects(ctx context.Context, filters repositories.ContentFilters) ([]*models.Project, int64, error) {
	return s.repo.Project().List(ctx, nil, filters)
}

// ===== ACHIEVEMENTS =====

func (s *contentService) CreateAchievement(ctx context.Context, req AchievementRequest) (*models.Achievement, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	achievedAt, err := parseAchievedAt(req.AchievedAt)
	if err != nil {
		return nil, err
	}

	achievement := &models.Achievement{
		Title:       req.Title,
		Description: req.Description,
		AchievedAt:  achievedAt,
		Active:      true,
	}
	if err := s.repo.Achievement().Create(ctx, nil, achievement); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return achievement, nil
}

func (s *contentService) UpdateAchievement(ctx context.Context, id uint, req AchievementRequest) (*models.Achievement, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	achievement, err := s.repo.Achievement().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to look up achievement: %w", err)
	}

	achievement.Title = req.Title
	achievement.Description = req.Description
	if req.AchievedAt != "" {
		achievedAt, err := parseAchievedAt(req.AchievedAt)
		if err != nil {
			return nil, err
		}
		achievement.AchievedAt = achievedAt
	}

	if err := s.repo.Achievement().Update(ctx, nil, achievement); err != nil {
		return nil, fmt.Errorf("failed to update achievement: %w", err)
	}
	return achievement, nil
}

func (s *contentService) DeleteAchievement(ctx context.Context, id uint) error {
	if _, err := s.repo.Achievement().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrContentNotFound
		}
		return fmt.Errorf("failed to look up achievement: %w", err)
	}
	return s.repo.Achievement().Delete(ctx, nil, id)
}

func (s *contentService) ToggleAchievement(ctx context.Context, id uint) (*models.Achievement, error) {
	achievement, err := s.repo.Achievement().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to look up achievement: %w", err)
	}

	achievement.Active = !achievement.Active
	if err := s.repo.Achievement().Update(ctx, nil, achievement); err != nil {
		return nil, fmt.Errorf("failed to toggle achievement: %w", err)
	}
	return achievement, nil
}

func (s *contentService) ListAchievements(ctx context.Context, filters repositories.ContentFilters) ([]*models.Achievement, int64, error) {
	return s.repo.Achievement().List(ctx, nil, filters)
}

// ===== TEAM MEMBERS =====

func (s *contentService) CreateTeamMember(ctx context.Context, req TeamMemberRequest) (*models.TeamMember, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	member := &models.TeamMember{
		Name:      req.Name,
		Position:  req.Position,
		Bio:       req.Bio,
		PhotoURL:  req.PhotoURL,
		SortOrder: req.SortOrder,
		Active:    true,
	}
	if err := s.repo.TeamMember().Create(ctx, nil, member); err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}
	return member, nil
}

func (s *contentService) UpdateTeamMember(ctx context.Context, id uint, req TeamMemberRequest) (*models.TeamMember, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	member, err := s.repo.TeamMember().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to look up team member: %w", err)
	}

	member.Name = req.Name
	member.Position = req.Position
	member.Bio = req.Bio
	member.PhotoURL = req.PhotoURL
	member.SortOrder = req.SortOrder

	if err := s.repo.TeamMember().Update(ctx, nil, member); err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}
	return member, nil
}

func (s *contentService) DeleteTeamMember(ctx context.Context, id uint) error {
	if _, err := s.repo.TeamMember().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrContentNotFound
		}
		return fmt.Errorf("failed to look up team member: %w", err)
	}
	return s.repo.TeamMember().Delete(ctx, nil, id)
}

func (s *contentService) ToggleTeamMember(ctx context.Context, id uint) (*models.TeamMember, error) {
	member, err := s.repo.TeamMember().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to look up team member: %w", err)
	}

	member.Active = !member.Active
	if err := s.repo.TeamMember().Update(ctx, nil, member); err != nil {
		return nil, fmt.Errorf("failed to toggle team member: %w", err)
	}
	return member, nil
}

func (s *contentService) ListTeamMembers(ctx context.Context, filters repositories.ContentFilters) ([]*models.TeamMember, int64, error) {
	return s.repo.TeamMember().List(ctx, nil, filters)
}

// ===== SETTINGS =====

// Setting returns the value for key, falling back to "" when missing or on
// lookup failure so a public page never fails on a setting.
func (s *contentService) Setting(ctx context.Context, key string) string {
	value, err := s.repo.Setting().Get(ctx, nil, key)
	if err != nil {
		s.logger.Warn("Setting lookup failed", "key", key, "error", err)
		return ""
	}
	return value
}

func (s *contentService) UpdateSetting(ctx context.Context, req SettingUpdateRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}

	if err := s.repo.Setting().Set(ctx, nil, req.Key, req.Value); err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}

	cache.InvalidateSettingsCache(ctx, s.cache)
	return nil
}

func (s *contentService) Settings(ctx context.Context) (map[string]string, error) {
	return s.repo.Setting().All(ctx, nil)
}

// marshalContent normalizes arbitrary JSON block structures into the stored
// column type.
func marshalContent(content any) (datatypes.JSON, error) {
	if content == nil {
		return nil, nil
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, NewValidationError("content", "must be valid JSON", nil)
	}
	return datatypes.JSON(raw), nil
}

func parseAchievedAt(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	achievedAt, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, NewValidationError("achieved_at", "must be an ISO date (YYYY-MM-DD)", value)
	}
	return achievedAt, nil
}
