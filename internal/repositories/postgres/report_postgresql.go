package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

type reportRepository struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) AttendanceInRange(ctx context.Context, tx *gorm.DB, from, to time.Time, class string) ([]*models.Attendance, error) {
	db := getDB(r.db, tx)
	var records []*models.Attendance

	query := db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Preload("Student")
	if class != "" {
		query = query.
			Joins("JOIN students ON students.id = attendances.student_id").
			Where("students.class = ?", class)
	}

	if err := query.Order("attendances.date ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get attendance range: %w", err)
	}
	return records, nil
}

func (r *reportRepository) GradeAverages(ctx context.Context, tx *gorm.DB, class, academicYear string) ([]repositories.StudentGradeAverage, error) {
	db := getDB(r.db, tx)
	var rows []repositories.StudentGradeAverage

	query := db.WithContext(ctx).
		Model(&models.Grade{}).
		Select("grades.student_id, AVG(grades.score) AS average, COUNT(grades.score) AS count").
		Where("grades.score IS NOT NULL").
		Group("grades.student_id")
	if class != "" {
		query = query.
			Joins("JOIN students ON students.id = grades.student_id").
			Where("students.class = ?", class)
	}
	if academicYear != "" {
		query = query.Where("grades.academic_year = ?", academicYear)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get grade averages: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) AttendanceTallies(ctx context.Context, tx *gorm.DB, from, to time.Time, class string) ([]repositories.StudentAttendanceTally, error) {
	db := getDB(r.db, tx)
	var rows []repositories.StudentAttendanceTally

	query := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Select("attendances.student_id, attendances.status, COUNT(*) AS count").
		Where("attendances.date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("attendances.student_id, attendances.status")
	if class != "" {
		query = query.
			Joins("JOIN students ON students.id = attendances.student_id").
			Where("students.class = ?", class)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get attendance tallies: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) Overview(ctx context.Context, tx *gorm.DB) (*repositories.OverviewCounts, error) {
	db := getDB(r.db, tx)
	counts := &repositories.OverviewCounts{}

	if err := db.WithContext(ctx).Model(&models.Student{}).Count(&counts.TotalStudents).Error; err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Student{}).
		Where("status = ?", models.StudentActive).
		Count(&counts.ActiveStudents).Error; err != nil {
		return nil, fmt.Errorf("failed to count active students: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&counts.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Page{}).Count(&counts.TotalPages).Error; err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Page{}).
		Where("published = true").
		Count(&counts.PublishedPages).Error; err != nil {
		return nil, fmt.Errorf("failed to count published pages: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Exam{}).
		Where("start_time > ?", time.Now()).
		Count(&counts.UpcomingExams).Error; err != nil {
		return nil, fmt.Errorf("failed to count upcoming exams: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Attendance{}).
		Where("date = ?", time.Now().Format("2006-01-02")).
		Count(&counts.RecordsToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's records: %w", err)
	}

	return counts, nil
}
