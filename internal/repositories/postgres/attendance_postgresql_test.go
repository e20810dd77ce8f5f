package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pesantren-digital/school-service/internal/models"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and prepares
// an empty attendance table with the production upsert index.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := db.Migrator().DropTable(&models.Attendance{}, &models.Subject{}, &models.Student{}); err != nil {
		t.Fatalf("drop tables: %v", err)
	}
	if err := db.AutoMigrate(&models.Student{}, &models.Subject{}, &models.Attendance{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_key
		 ON attendances (student_id, date, subject_id) NULLS NOT DISTINCT`,
	).Error
	if err != nil {
		t.Fatalf("create index: %v", err)
	}

	fixtures := []any{
		&models.Student{ID: 1, StudentCode: "S-001", Name: "Ahmad", Class: "7A", Status: models.StudentActive},
		&models.Subject{ID: 1, Name: "Mathematics", Code: "MATH"},
		&models.Subject{ID: 2, Name: "Arabic", Code: "ARB"},
	}
	for _, f := range fixtures {
		if err := db.Create(f).Error; err != nil {
			t.Fatalf("seed fixture: %v", err)
		}
	}
	return db
}

// A resubmission must update the existing row, not insert a second one. The
// NULL subject_id case is the one a plain unique index gets wrong: Postgres
// treats NULLs as distinct by default, so the conflict never fires and daily
// attendance rows duplicate.
func TestUpsertDailyResubmission(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := openTestDB(t)
	repo := NewAttendancePostgreSQL(db)
	ctx := context.Background()

	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	first := &models.Attendance{StudentID: 1, Date: date, Status: models.AttendancePresent}
	if err := repo.Upsert(ctx, nil, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &models.Attendance{StudentID: 1, Date: date, Status: models.AttendanceSick}
	if err := repo.Upsert(ctx, nil, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := db.Model(&models.Attendance{}).Where("student_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d rows for (student, date), want 1", count)
	}

	stored, err := repo.GetByKey(ctx, nil, 1, date, nil)
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if stored.Status != models.AttendanceSick {
		t.Errorf("status = %q, want %q", stored.Status, models.AttendanceSick)
	}
}

func TestUpsertSubjectRowsStayDistinct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := openTestDB(t)
	repo := NewAttendancePostgreSQL(db)
	ctx := context.Background()

	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	mathID, arabicID := uint(1), uint(2)

	records := []*models.Attendance{
		{StudentID: 1, Date: date, SubjectID: &mathID, Status: models.AttendancePresent},
		{StudentID: 1, Date: date, SubjectID: &arabicID, Status: models.AttendanceLate},
		{StudentID: 1, Date: date, Status: models.AttendancePresent},
	}
	if err := repo.UpsertBatch(ctx, nil, records); err != nil {
		t.Fatalf("batch upsert: %v", err)
	}

	var count int64
	if err := db.Model(&models.Attendance{}).Where("student_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("got %d rows, want 3 (two subjects plus the daily row)", count)
	}
}
