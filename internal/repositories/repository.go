package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates all domain repositories behind one interface.
type Repository interface {
	// Identity domain
	User() UserRepository
	Role() RoleRepository
	Permission() PermissionRepository
	Student() StudentRepository

	// Academic domain
	Attendance() AttendanceRepository
	Grade() GradeRepository
	Subject() SubjectRepository
	Exam() ExamRepository

	// Content domain
	Page() PageRepository
	Facility() FacilityRepository
	Project() ProjectRepository
	Achievement() AchievementRepository
	TeamMember() TeamMemberRepository
	Setting() SettingRepository

	// Reporting domain
	Report() ReportRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
