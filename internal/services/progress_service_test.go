package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

func scorePtr(v float64) *float64 { return &v }

func newProgressFixture(students *mockStudentRepo, grades *mockGradeRepo, report *mockReportRepo) ProgressService {
	if grades == nil {
		grades = &mockGradeRepo{}
	}
	if report == nil {
		report = &mockReportRepo{}
	}
	repo := &mockRepository{student: students, grade: grades, report: report}
	return NewProgressService(repo, nil, cache.NewCacheManager(nil), testLogger())
}

func TestStudentProgress(t *testing.T) {
	ctx := context.Background()
	student := &models.Student{ID: 1, Name: "Ahmad", Class: "7A", StudentCode: "S-001", Status: models.StudentActive}

	t.Run("averages grades and derives the tier", func(t *testing.T) {
		grades := &mockGradeRepo{grades: []*models.Grade{
			{ID: 1, StudentID: 1, Score: scorePtr(80)},
			{ID: 2, StudentID: 1, Score: scorePtr(90)},
			{ID: 3, StudentID: 1, Score: nil},
		}}
		report := &mockReportRepo{tallies: []repositories.StudentAttendanceTally{
			{StudentID: 1, Status: models.AttendancePresent, Count: 9},
			{StudentID: 1, Status: models.AttendanceAbsent, Count: 1},
		}}
		svc := newProgressFixture(newMockStudentRepo(student), grades, report)

		resp, err := svc.StudentProgress(ctx, 1)
		if err != nil {
			t.Fatalf("StudentProgress() error = %v", err)
		}
		if resp.AverageGrade != 85 {
			t.Errorf("AverageGrade = %v, want 85 (nil scores excluded)", resp.AverageGrade)
		}
		if resp.AttendanceRate != 90 {
			t.Errorf("AttendanceRate = %v, want 90", resp.AttendanceRate)
		}
		if resp.Tier != TierExcellent {
			t.Errorf("Tier = %v, want excellent", resp.Tier)
		}
	})

	t.Run("no data lands in needs_attention", func(t *testing.T) {
		svc := newProgressFixture(newMockStudentRepo(student), nil, nil)

		resp, err := svc.StudentProgress(ctx, 1)
		if err != nil {
			t.Fatalf("StudentProgress() error = %v", err)
		}
		if resp.AverageGrade != 0 || resp.AttendanceRate != 0 {
			t.Errorf("expected zeroes, got avg %v rate %v", resp.AverageGrade, resp.AttendanceRate)
		}
		if resp.Tier != TierNeedsAttention {
			t.Errorf("Tier = %v, want needs_attention", resp.Tier)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		svc := newProgressFixture(newMockStudentRepo(), nil, nil)

		if _, err := svc.StudentProgress(ctx, 404); !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("StudentProgress() error = %v, want ErrStudentNotFound", err)
		}
	})
}

func TestClassProgress(t *testing.T) {
	ctx := context.Background()

	students := newMockStudentRepo(
		&models.Student{ID: 1, Name: "Ahmad", Class: "7A", StudentCode: "S-001", Status: models.StudentActive},
		&models.Student{ID: 2, Name: "Budi", Class: "7A", StudentCode: "S-002", Status: models.StudentActive},
	)
	report := &mockReportRepo{
		averages: []repositories.StudentGradeAverage{
			{StudentID: 1, Average: 88, Count: 4},
		},
		tallies: []repositories.StudentAttendanceTally{
			{StudentID: 1, Status: models.AttendancePresent, Count: 19},
			{StudentID: 1, Status: models.AttendanceLate, Count: 1},
		},
	}
	svc := newProgressFixture(students, nil, report)

	resp, err := svc.ClassProgress(ctx, "7A", "2026/2027")
	if err != nil {
		t.Fatalf("ClassProgress() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
	if resp.ExcellentCount != 1 {
		t.Errorf("ExcellentCount = %d, want 1", resp.ExcellentCount)
	}
	// The second student has no grades and no attendance at all.
	if resp.NeedsAttentionCount != 1 {
		t.Errorf("NeedsAttentionCount = %d, want 1", resp.NeedsAttentionCount)
	}
}

func TestWeeklyReport(t *testing.T) {
	ctx := context.Background()
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	report := &mockReportRepo{records: []*models.Attendance{
		{StudentID: 1, Date: monday, Status: models.AttendancePresent},
		{StudentID: 2, Date: monday, Status: models.AttendancePresent},
		{StudentID: 1, Date: monday.AddDate(0, 0, 2), Status: models.AttendanceSick},
	}}
	svc := newProgressFixture(newMockStudentRepo(), nil, report)

	resp, err := svc.WeeklyReport(ctx, monday, "7A")
	if err != nil {
		t.Fatalf("WeeklyReport() error = %v", err)
	}
	if len(resp.Days) != 7 {
		t.Fatalf("Days = %d, want 7 including empty ones", len(resp.Days))
	}
	if resp.From != "2026-08-24" || resp.To != "2026-08-30" {
		t.Errorf("range = %s..%s, want 2026-08-24..2026-08-30", resp.From, resp.To)
	}

	if got := resp.Days[0].ByStatus[models.AttendancePresent]; got != 2 {
		t.Errorf("monday present = %d, want 2", got)
	}
	if got := resp.Days[2].ByStatus[models.AttendanceSick]; got != 1 {
		t.Errorf("wednesday sick = %d, want 1", got)
	}
	if resp.Days[1].Total != 0 {
		t.Errorf("tuesday total = %d, want 0", resp.Days[1].Total)
	}
}

func TestMonthlyReport(t *testing.T) {
	ctx := context.Background()
	aug := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	ahmad := &models.Student{ID: 1, Name: "Ahmad"}
	budi := &models.Student{ID: 2, Name: "Budi"}
	report := &mockReportRepo{records: []*models.Attendance{
		{StudentID: 2, Date: aug.AddDate(0, 0, 3), Status: models.AttendancePresent, Student: budi},
		{StudentID: 1, Date: aug.AddDate(0, 0, 3), Status: models.AttendancePresent, Student: ahmad},
		{StudentID: 1, Date: aug.AddDate(0, 0, 4), Status: models.AttendanceLate, Student: ahmad},
	}}
	svc := newProgressFixture(newMockStudentRepo(), nil, report)

	resp, err := svc.MonthlyReport(ctx, aug, "")
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}
	if resp.Month != "2026-08" {
		t.Errorf("Month = %s, want 2026-08", resp.Month)
	}
	if len(resp.Students) != 2 {
		t.Fatalf("Students = %d, want 2", len(resp.Students))
	}
	// Sorted by student name, not by record order.
	if resp.Students[0].StudentName != "Ahmad" || resp.Students[1].StudentName != "Budi" {
		t.Errorf("order = [%s, %s], want [Ahmad, Budi]", resp.Students[0].StudentName, resp.Students[1].StudentName)
	}
	if resp.Students[0].Total != 2 {
		t.Errorf("Ahmad total = %d, want 2", resp.Students[0].Total)
	}
	if resp.Students[0].ByStatus[models.AttendanceLate] != 1 {
		t.Errorf("Ahmad late = %d, want 1", resp.Students[0].ByStatus[models.AttendanceLate])
	}
}
