package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
)

// GradeFilters defines filters for grade queries
type GradeFilters struct {
	StudentID    *uint
	SubjectID    *uint
	AcademicYear string
	Semester     *int
	Limit        int
	Offset       int
}

type GradeRepository interface {
	// Upsert inserts or updates the score keyed by
	// (student_id, subject_id, academic_year, semester).
	Upsert(ctx context.Context, tx *gorm.DB, grade *models.Grade) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error)
	List(ctx context.Context, tx *gorm.DB, filters GradeFilters) ([]*models.Grade, int64, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Grade, error)

	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type SubjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	Update(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error)
}

// ExamFilters defines filters for exam queries
type ExamFilters struct {
	SubjectID *uint
	Class     string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type ExamRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error)
	List(ctx context.Context, tx *gorm.DB, filters ExamFilters) ([]*models.Exam, int64, error)
}
