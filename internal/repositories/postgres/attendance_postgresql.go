package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

type AttendancePostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// attendanceConflict is the uniqueness tuple of the ledger. The ON CONFLICT
// clause makes a resubmission for the same key an atomic in-place update, so
// concurrent submissions cannot produce duplicate rows. The arbiter is the
// NULLS NOT DISTINCT index idx_attendance_key; a plain unique index would
// treat every NULL subject_id as distinct and let daily rows duplicate.
var attendanceConflict = clause.OnConflict{
	Columns: []clause.Column{{Name: "student_id"}, {Name: "date"}, {Name: "subject_id"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"status", "time_in", "recorded_by", "updated_at",
	}),
}

func (a *AttendancePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, record *models.Attendance) error {
	db := getDB(a.db, tx)
	record.UpdatedAt = time.Now()
	return db.WithContext(ctx).Clauses(attendanceConflict).Create(record).Error
}

func (a *AttendancePostgreSQL) UpsertBatch(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	db := getDB(a.db, tx)
	now := time.Now()
	for _, r := range records {
		r.UpdatedAt = now
	}
	return db.WithContext(ctx).Clauses(attendanceConflict).CreateInBatches(records, 100).Error
}

func (a *AttendancePostgreSQL) GetByKey(ctx context.Context, tx *gorm.DB, studentID uint, date time.Time, subjectID *uint) (*models.Attendance, error) {
	db := getDB(a.db, tx)
	var record models.Attendance

	query := db.WithContext(ctx).Where("student_id = ? AND date = ?", studentID, date.Format("2006-01-02"))
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	} else {
		query = query.Where("subject_id IS NULL")
	}

	if err := query.First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (a *AttendancePostgreSQL) ListForDate(ctx context.Context, tx *gorm.DB, date time.Time, class string) ([]*models.Attendance, error) {
	db := getDB(a.db, tx)
	var records []*models.Attendance

	query := db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Preload("Student")
	if class != "" {
		query = query.
			Joins("JOIN students ON students.id = attendances.student_id").
			Where("students.class = ?", class)
	}

	if err := query.Order("attendances.updated_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (a *AttendancePostgreSQL) ListRange(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
	db := getDB(a.db, tx)
	var records []*models.Attendance

	query := db.WithContext(ctx).Model(&models.Attendance{})
	query = a.helpers.ApplyAttendanceFilters(query, filters)
	if filters.Class != "" {
		query = query.
			Joins("JOIN students ON students.id = attendances.student_id").
			Where("students.class = ?", filters.Class)
	}
	if filters.Limit > 0 {
		query = ApplyPagination(query, filters.Limit, filters.Offset)
	}

	if err := query.Order("attendances.date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (a *AttendancePostgreSQL) CountByStudent(ctx context.Context, tx *gorm.DB, studentID uint) (int64, error) {
	db := getDB(a.db, tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("student_id = ?", studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
