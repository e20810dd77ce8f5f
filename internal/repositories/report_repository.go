package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
)

// ===== SHARED STATISTICS STRUCTS =====

// StudentGradeAverage is one row of the per-student AVG(score) query.
type StudentGradeAverage struct {
	StudentID uint    `json:"student_id"`
	Average   float64 `json:"average"`
	Count     int64   `json:"count"`
}

// StudentAttendanceTally is one row of the per-student status tally query.
type StudentAttendanceTally struct {
	StudentID uint                    `json:"student_id"`
	Status    models.AttendanceStatus `json:"status"`
	Count     int64                   `json:"count"`
}

// OverviewCounts backs the admin dashboard header.
type OverviewCounts struct {
	TotalStudents   int64 `json:"total_students"`
	ActiveStudents  int64 `json:"active_students"`
	TotalUsers      int64 `json:"total_users"`
	TotalPages      int64 `json:"total_pages"`
	PublishedPages  int64 `json:"published_pages"`
	UpcomingExams   int64 `json:"upcoming_exams"`
	RecordsToday    int64 `json:"records_today"`
}

type ReportRepository interface {
	// AttendanceInRange returns raw records for [from, to] optionally limited
	// to a class; aggregation happens in the service layer.
	AttendanceInRange(ctx context.Context, tx *gorm.DB, from, to time.Time, class string) ([]*models.Attendance, error)

	// GradeAverages returns the per-student arithmetic mean of non-null
	// scores. Students without grades are simply absent from the result.
	GradeAverages(ctx context.Context, tx *gorm.DB, class, academicYear string) ([]StudentGradeAverage, error)

	// AttendanceTallies returns per-student counts grouped by status.
	AttendanceTallies(ctx context.Context, tx *gorm.DB, from, to time.Time, class string) ([]StudentAttendanceTally, error)

	Overview(ctx context.Context, tx *gorm.DB) (*OverviewCounts, error)
}
