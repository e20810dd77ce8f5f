package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/config"
	"github.com/pesantren-digital/school-service/internal/events"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

// serviceManager implements ServiceManager.
type serviceManager struct {
	repo      repositories.Repository
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    utils.Logger
	jwtConfig config.JWTConfig
	bootstrap BootstrapPolicy

	authService       AuthService
	userService       UserService
	attendanceService AttendanceService
	progressService   ProgressService
	roleService       RoleService
	studentService    StudentService
	gradeService      GradeService
	contentService    ContentService
	exportService     ExportService

	initialized bool
	mu          sync.RWMutex
}

// NewServiceManager wires all services over shared dependencies. A nil
// bootstrap policy falls back to the default student-code match.
func NewServiceManager(
	repo repositories.Repository,
	v *validator.Validator,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	logger utils.Logger,
	jwtConfig config.JWTConfig,
	bootstrap BootstrapPolicy,
) ServiceManager {
	return &serviceManager{
		repo:      repo,
		validator: v,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		jwtConfig: jwtConfig,
		bootstrap: bootstrap,
	}
}

// Initialize builds the service instances. Content goes first so the
// progress dashboard can read settings through it.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.contentService = NewContentService(sm.repo, sm.validator, sm.cache, sm.logger)
	sm.authService = NewAuthService(sm.repo, sm.validator, sm.cache, sm.publisher, sm.logger, sm.jwtConfig, sm.bootstrap)
	sm.userService = NewUserService(sm.repo, sm.validator, sm.logger)
	sm.attendanceService = NewAttendanceService(sm.repo, sm.validator, sm.cache, sm.publisher, sm.logger)
	sm.progressService = NewProgressService(sm.repo, sm.contentService, sm.cache, sm.logger)
	sm.roleService = NewRoleService(sm.repo, sm.validator, sm.logger)
	sm.studentService = NewStudentService(sm.repo, sm.validator, sm.cache, sm.logger)
	sm.gradeService = NewGradeService(sm.repo, sm.validator, sm.cache, sm.publisher, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.initialized = false
	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.attendanceService
}

func (sm *serviceManager) Progress() ProgressService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.progressService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Role() RoleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.roleService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.studentService
}

func (sm *serviceManager) Grade() GradeService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.gradeService
}

func (sm *serviceManager) Content() ContentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.contentService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}
