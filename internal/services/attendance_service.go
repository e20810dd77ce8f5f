package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/events"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

const dateLayout = "2006-01-02"

type attendanceService struct {
	repo      repositories.Repository
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewAttendanceService(
	repo repositories.Repository,
	v *validator.Validator,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	logger utils.Logger,
) AttendanceService {
	return &attendanceService{
		repo:      repo,
		validator: v,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
	}
}

// Record upserts one attendance record. Resubmitting the same
// (student, date, subject) key overwrites status and time_in instead of
// creating a duplicate row.
func (s *attendanceService) Record(ctx context.Context, recordedBy uint, req AttendanceRecordRequest) (*models.Attendance, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, NewValidationError("date", "must be an ISO date (YYYY-MM-DD)", req.Date)
	}

	if _, err := s.repo.Student().GetByID(ctx, nil, req.StudentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	record := buildAttendance(req.StudentID, date, req.SubjectID, models.AttendanceStatus(req.Status), recordedBy)

	if err := s.repo.Attendance().Upsert(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	cache.InvalidateReportCache(ctx, s.cache, req.StudentID)
	s.publishRecorded(ctx, record, 1)

	s.logger.Info("Attendance recorded",
		"student_id", req.StudentID,
		"date", req.Date,
		"status", req.Status)

	return record, nil
}

// RecordBatch upserts one status per student for the date. The batch is a
// single transaction; either every record lands or none do.
func (s *attendanceService) RecordBatch(ctx context.Context, recordedBy uint, req AttendanceBatchRequest) (*AttendanceBatchResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, NewValidationError("date", "must be an ISO date (YYYY-MM-DD)", req.Date)
	}

	records := make([]*models.Attendance, 0, len(req.Records))
	for studentID, status := range req.Records {
		records = append(records, buildAttendance(studentID, date, req.SubjectID, models.AttendanceStatus(status), recordedBy))
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for _, r := range records {
			if _, err := txRepo.Student().GetByID(ctx, nil, r.StudentID); err != nil {
				if repositories.IsNotFoundError(err) {
					return ErrStudentNotFound
				}
				return fmt.Errorf("failed to look up student %d: %w", r.StudentID, err)
			}
		}
		return txRepo.Attendance().UpsertBatch(ctx, nil, records)
	})
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		cache.InvalidateReportCache(ctx, s.cache, r.StudentID)
	}
	s.publishRecorded(ctx, records[0], len(records))

	s.logger.Info("Attendance batch recorded", "date", req.Date, "count", len(records))

	return &AttendanceBatchResponse{
		Date:     req.Date,
		Recorded: len(records),
		Rate:     DailyAttendanceRate(records),
	}, nil
}

// ListForDate returns the day's records newest-change-first together with
// the daily attendance rate.
func (s *attendanceService) ListForDate(ctx context.Context, date time.Time, class string) (*AttendanceListResponse, error) {
	records, err := s.repo.Attendance().ListForDate(ctx, nil, date, class)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return &AttendanceListResponse{
		Date:    date.Format(dateLayout),
		Class:   class,
		Records: records,
		Rate:    DailyAttendanceRate(records),
	}, nil
}

// buildAttendance sets time_in to the current time only for present; every
// other status clears it, also on resubmission.
func buildAttendance(studentID uint, date time.Time, subjectID *uint, status models.AttendanceStatus, recordedBy uint) *models.Attendance {
	record := &models.Attendance{
		StudentID:  studentID,
		Date:       date,
		SubjectID:  subjectID,
		Status:     status,
		RecordedBy: &recordedBy,
	}
	if status == models.AttendancePresent {
		record.TimeIn = timePtr(time.Now())
	}
	return record
}

func (s *attendanceService) publishRecorded(ctx context.Context, sample *models.Attendance, count int) {
	if s.publisher == nil {
		return
	}
	event := events.NewEvent(events.EventAttendanceRecorded, map[string]any{
		"date":  sample.Date.Format(dateLayout),
		"count": count,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish attendance event", "error", err)
	}
}
