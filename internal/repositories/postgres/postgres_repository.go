package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	user       repositories.UserRepository
	role       repositories.RoleRepository
	permission repositories.PermissionRepository
	student    repositories.StudentRepository
	attendance repositories.AttendanceRepository
	grade      repositories.GradeRepository
	subject    repositories.SubjectRepository
	exam       repositories.ExamRepository

	page        repositories.PageRepository
	facility    repositories.FacilityRepository
	project     repositories.ProjectRepository
	achievement repositories.AchievementRepository
	teamMember  repositories.TeamMemberRepository
	setting     repositories.SettingRepository

	report repositories.ReportRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserPostgreSQL(config.DB)
	repo.role = NewRolePostgreSQL(config.DB)
	repo.permission = NewPermissionPostgreSQL(config.DB)
	repo.student = NewStudentPostgreSQL(config.DB)
	repo.attendance = NewAttendancePostgreSQL(config.DB)
	repo.grade = NewGradePostgreSQL(config.DB)
	repo.subject = NewSubjectPostgreSQL(config.DB)
	repo.exam = NewExamPostgreSQL(config.DB)

	repo.page = NewPagePostgreSQL(config.DB)
	repo.facility = NewFacilityPostgreSQL(config.DB)
	repo.project = NewProjectPostgreSQL(config.DB)
	repo.achievement = NewAchievementPostgreSQL(config.DB)
	repo.teamMember = NewTeamMemberPostgreSQL(config.DB)
	repo.setting = NewSettingPostgreSQL(config.DB, cacheManager)

	repo.report = NewReportPostgreSQL(config.DB)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository             { return r.user }
func (r *PostgreSQLRepository) Role() repositories.RoleRepository             { return r.role }
func (r *PostgreSQLRepository) Permission() repositories.PermissionRepository { return r.permission }
func (r *PostgreSQLRepository) Student() repositories.StudentRepository       { return r.student }
func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository { return r.attendance }
func (r *PostgreSQLRepository) Grade() repositories.GradeRepository           { return r.grade }
func (r *PostgreSQLRepository) Subject() repositories.SubjectRepository       { return r.subject }
func (r *PostgreSQLRepository) Exam() repositories.ExamRepository             { return r.exam }

func (r *PostgreSQLRepository) Page() repositories.PageRepository               { return r.page }
func (r *PostgreSQLRepository) Facility() repositories.FacilityRepository       { return r.facility }
func (r *PostgreSQLRepository) Project() repositories.ProjectRepository         { return r.project }
func (r *PostgreSQLRepository) Achievement() repositories.AchievementRepository { return r.achievement }
func (r *PostgreSQLRepository) TeamMember() repositories.TeamMemberRepository   { return r.teamMember }
func (r *PostgreSQLRepository) Setting() repositories.SettingRepository         { return r.setting }

func (r *PostgreSQLRepository) Report() repositories.ReportRepository { return r.report }

// WithTransaction runs fn inside one database transaction; the repository
// passed to fn routes every operation through that transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := NewPostgreSQLRepository(RepositoryConfig{DB: tx, RedisClient: r.redisClient})
		return fn(txRepo)
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// ===== REPOSITORY MANAGER =====

type repositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a repository manager for lifecycle handling.
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
