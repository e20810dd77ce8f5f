package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
)

// StudentFilters defines filters for student queries
type StudentFilters struct {
	Query        string
	Class        string
	AcademicYear string
	Status       *models.StudentStatus
	Limit        int
	Offset       int
	SortBy       string // "name", "student_code", "created_at"
	SortOrder    string // "asc", "desc"
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	CreateBatch(ctx context.Context, tx *gorm.DB, students []*models.Student) error
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByClassAndCode(ctx context.Context, tx *gorm.DB, class, code string) (*models.Student, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error)

	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)
	// ListActiveByClass returns the cohort for aggregate reports. An empty
	// class returns all active students.
	ListActiveByClass(ctx context.Context, tx *gorm.DB, class string) ([]*models.Student, error)

	LinkUser(ctx context.Context, tx *gorm.DB, studentID, userID uint) error
}
