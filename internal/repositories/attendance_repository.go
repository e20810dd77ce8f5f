package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
)

// AttendanceFilters defines filters for attendance queries
type AttendanceFilters struct {
	StudentID *uint
	SubjectID *uint
	Class     string
	DateFrom  *time.Time
	DateTo    *time.Time
	Status    *models.AttendanceStatus
	Limit     int
	Offset    int
}

type AttendanceRepository interface {
	// Upsert inserts or updates the record keyed by
	// (student_id, date, subject_id) as one atomic conditional write.
	Upsert(ctx context.Context, tx *gorm.DB, record *models.Attendance) error
	UpsertBatch(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error

	GetByKey(ctx context.Context, tx *gorm.DB, studentID uint, date time.Time, subjectID *uint) (*models.Attendance, error)

	// ListForDate returns all records for a date, optionally restricted to a
	// class, ordered by most-recently-modified.
	ListForDate(ctx context.Context, tx *gorm.DB, date time.Time, class string) ([]*models.Attendance, error)
	ListRange(ctx context.Context, tx *gorm.DB, filters AttendanceFilters) ([]*models.Attendance, error)

	CountByStudent(ctx context.Context, tx *gorm.DB, studentID uint) (int64, error)
}
