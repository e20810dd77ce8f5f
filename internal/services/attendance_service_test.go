package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/events"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newAttendanceFixture(students ...*models.Student) (AttendanceService, *mockAttendanceRepo, *events.MockEventPublisher) {
	attendanceRepo := newMockAttendanceRepo()
	repo := &mockRepository{
		student:    newMockStudentRepo(students...),
		attendance: attendanceRepo,
	}
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewAttendanceService(repo, validator.New(), cache.NewCacheManager(nil), publisher, testLogger())
	return svc, attendanceRepo, publisher
}

func TestAttendanceRecord(t *testing.T) {
	ctx := context.Background()
	student := &models.Student{ID: 1, Name: "Ahmad", Class: "7A", StudentCode: "S-001", Status: models.StudentActive}

	t.Run("present sets time in", func(t *testing.T) {
		svc, _, _ := newAttendanceFixture(student)

		record, err := svc.Record(ctx, 9, AttendanceRecordRequest{
			StudentID: 1,
			Date:      "2026-08-31",
			Status:    "present",
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if record.TimeIn == nil {
			t.Error("expected time_in to be set for present")
		}
		if record.RecordedBy == nil || *record.RecordedBy != 9 {
			t.Errorf("RecordedBy = %v, want 9", record.RecordedBy)
		}
	})

	t.Run("other statuses leave time in empty", func(t *testing.T) {
		svc, _, _ := newAttendanceFixture(student)

		for _, status := range []string{"late", "sick", "permission", "absent"} {
			record, err := svc.Record(ctx, 9, AttendanceRecordRequest{
				StudentID: 1,
				Date:      "2026-08-31",
				Status:    status,
			})
			if err != nil {
				t.Fatalf("Record(%s) error = %v", status, err)
			}
			if record.TimeIn != nil {
				t.Errorf("status %s: expected nil time_in", status)
			}
		}
	})

	t.Run("resubmission overwrites instead of duplicating", func(t *testing.T) {
		svc, attendanceRepo, _ := newAttendanceFixture(student)

		if _, err := svc.Record(ctx, 9, AttendanceRecordRequest{StudentID: 1, Date: "2026-08-31", Status: "present"}); err != nil {
			t.Fatalf("first Record() error = %v", err)
		}
		record, err := svc.Record(ctx, 9, AttendanceRecordRequest{StudentID: 1, Date: "2026-08-31", Status: "sick"})
		if err != nil {
			t.Fatalf("second Record() error = %v", err)
		}

		if len(attendanceRepo.records) != 1 {
			t.Errorf("stored records = %d, want 1", len(attendanceRepo.records))
		}
		if record.Status != models.AttendanceSick {
			t.Errorf("Status = %v, want sick", record.Status)
		}
		if record.TimeIn != nil {
			t.Error("expected resubmission to clear time_in")
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		svc, _, _ := newAttendanceFixture(student)

		_, err := svc.Record(ctx, 9, AttendanceRecordRequest{StudentID: 42, Date: "2026-08-31", Status: "present"})
		if !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("Record() error = %v, want ErrStudentNotFound", err)
		}
	})

	t.Run("invalid status rejected by validation", func(t *testing.T) {
		svc, attendanceRepo, _ := newAttendanceFixture(student)

		_, err := svc.Record(ctx, 9, AttendanceRecordRequest{StudentID: 1, Date: "2026-08-31", Status: "vacation"})
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Record() error = %v, want validation errors", err)
		}
		if attendanceRepo.upserts != 0 {
			t.Error("expected no upsert on validation failure")
		}
	})

	t.Run("publishes recorded event", func(t *testing.T) {
		svc, _, publisher := newAttendanceFixture(student)

		if _, err := svc.Record(ctx, 9, AttendanceRecordRequest{StudentID: 1, Date: "2026-08-31", Status: "present"}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("published events = %d, want 1", len(published))
		}
		event := published[0]
		if event.Type != events.EventAttendanceRecorded {
			t.Errorf("event Type = %s, want %s", event.Type, events.EventAttendanceRecorded)
		}
		if event.Source != "school-service" {
			t.Errorf("event Source = %s, want school-service", event.Source)
		}
		if event.Version != "1.0" {
			t.Errorf("event Version = %s, want 1.0", event.Version)
		}
		if event.ID == "" {
			t.Error("event ID should not be empty")
		}
	})
}

func TestAttendanceRecordBatch(t *testing.T) {
	ctx := context.Background()
	students := []*models.Student{
		{ID: 1, Name: "Ahmad", Class: "7A", StudentCode: "S-001", Status: models.StudentActive},
		{ID: 2, Name: "Budi", Class: "7A", StudentCode: "S-002", Status: models.StudentActive},
		{ID: 3, Name: "Citra", Class: "7A", StudentCode: "S-003", Status: models.StudentActive},
	}

	t.Run("records all and reports the daily rate", func(t *testing.T) {
		svc, attendanceRepo, _ := newAttendanceFixture(students...)

		resp, err := svc.RecordBatch(ctx, 9, AttendanceBatchRequest{
			Date: "2026-08-31",
			Records: map[uint]string{
				1: "present",
				2: "late",
				3: "absent",
			},
		})
		if err != nil {
			t.Fatalf("RecordBatch() error = %v", err)
		}
		if resp.Recorded != 3 {
			t.Errorf("Recorded = %d, want 3", resp.Recorded)
		}
		if resp.Rate != 66.7 {
			t.Errorf("Rate = %v, want 66.7", resp.Rate)
		}
		if len(attendanceRepo.records) != 3 {
			t.Errorf("stored records = %d, want 3", len(attendanceRepo.records))
		}
	})

	t.Run("one unknown student fails the whole batch", func(t *testing.T) {
		svc, _, _ := newAttendanceFixture(students...)

		_, err := svc.RecordBatch(ctx, 9, AttendanceBatchRequest{
			Date: "2026-08-31",
			Records: map[uint]string{
				1:  "present",
				99: "present",
			},
		})
		if !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("RecordBatch() error = %v, want ErrStudentNotFound", err)
		}
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		svc, _, _ := newAttendanceFixture(students...)

		_, err := svc.RecordBatch(ctx, 9, AttendanceBatchRequest{
			Date:    "2026-08-31",
			Records: map[uint]string{},
		})
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("RecordBatch() error = %v, want validation errors", err)
		}
	})
}
